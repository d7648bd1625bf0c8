package preset

import (
	"os"
	"path/filepath"
	"testing"
)

func writePresetFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "presets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_validConfig(t *testing.T) {
	dir := t.TempDir()
	path := writePresetFile(t, dir, `
version: 1
default:
  private: true
presets:
  hd:
    trackers:
      - https://tracker.example/announce
    piece_length: 20
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(cfg.Presets))
	}
}

func TestLoad_rejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := writePresetFile(t, dir, "version: 2\npresets:\n  hd: {}\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestLoad_rejectsEmptyPresets(t *testing.T) {
	dir := t.TempDir()
	path := writePresetFile(t, dir, "version: 1\npresets: {}\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty presets")
	}
}

func TestGetPreset_mergesWithDefaults(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Default: &Options{Private: true, Comment: "default comment"},
		Presets: map[string]Options{
			"hd": {PieceLengthExp: 20},
		},
	}

	opts, err := cfg.GetPreset("hd")
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if !opts.Private {
		t.Error("expected Private to be inherited from defaults")
	}
	if opts.Comment != "default comment" {
		t.Error("expected Comment to be inherited from defaults")
	}
	if opts.PieceLengthExp != 20 {
		t.Error("expected preset-specific PieceLengthExp to override default")
	}
}

func TestGetPreset_unknownName(t *testing.T) {
	cfg := &Config{Presets: map[string]Options{}}
	if _, err := cfg.GetPreset("missing"); err == nil {
		t.Error("expected error for unknown preset name")
	}
}

func TestGenerateOutputPath(t *testing.T) {
	got := GenerateOutputPath("/tmp/movie.torrent", "", "hd")
	want := "/tmp/movie-hd.torrent"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
