package torrent

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/tajoumaru/torrite/internal/bencode"
)

func mustPtr[T any](v T) *T { return &v }

func TestCreateTorrent_v1SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "movie.mkv", 1<<20, 0xAA)

	ts := int64(1700000000)
	result, err := CreateTorrent(CreateOptions{
		Path:           filepath.Join(dir, "movie.mkv"),
		Mode:           ModeV1,
		PieceLengthExp: mustPtr(uint(18)),
		NoCreator:      true,
		CreationTime:   &ts,
	})
	if err != nil {
		t.Fatalf("CreateTorrent: %v", err)
	}
	if result.NumPieces != 4 {
		t.Errorf("NumPieces = %d, want 4", result.NumPieces)
	}
	if result.InfoHash == "" {
		t.Error("expected non-empty InfoHash")
	}
	if result.InfoHashV2 != "" {
		t.Error("v1 mode should not set InfoHashV2")
	}

	decoded, err := bencode.Decode(bytes.NewReader(result.Bytes))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	doc, ok := decoded.(bencode.Dict)
	if !ok {
		t.Fatalf("decoded root is not a dict: %T", decoded)
	}
	if _, ok := doc["info"]; !ok {
		t.Error("missing info dict in output")
	}
}

func TestCreateTorrent_deterministicOutput(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin", 1<<19, 0x11)

	ts := int64(1700000000)
	opts := CreateOptions{
		Path:           filepath.Join(dir, "a.bin"),
		Mode:           ModeV1,
		PieceLengthExp: mustPtr(uint(18)),
		NoCreator:      true,
		CreationTime:   &ts,
	}

	r1, err := CreateTorrent(opts)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := CreateTorrent(opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(r1.Bytes) != string(r2.Bytes) {
		t.Error("identical inputs and fixed creation date should produce byte-identical output")
	}
	if r1.InfoHash != r2.InfoHash {
		t.Error("identical inputs should produce identical infohash")
	}
}

func TestCreateTorrent_crossSeedChangesInfoHash(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin", 1<<19, 0x11)

	ts := int64(1700000000)
	base := CreateOptions{
		Path:           filepath.Join(dir, "a.bin"),
		Mode:           ModeV1,
		PieceLengthExp: mustPtr(uint(18)),
		NoCreator:      true,
		CreationTime:   &ts,
	}

	opts1 := base
	opts1.Entropy = []byte("salt-one")
	opts2 := base
	opts2.Entropy = []byte("salt-two")

	r1, err := CreateTorrent(opts1)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := CreateTorrent(opts2)
	if err != nil {
		t.Fatal(err)
	}
	if r1.InfoHash == r2.InfoHash {
		t.Error("different cross-seed entropy should produce different infohashes")
	}
}

func TestCreateTorrent_v2Mode(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.txt", 100, 0x01)
	writeTempFile(t, dir, "b.txt", 300, 0x02)

	result, err := CreateTorrent(CreateOptions{
		Path:           dir,
		Mode:           ModeV2,
		PieceLengthExp: mustPtr(uint(18)),
		NoCreator:      true,
		NoDate:         true,
	})
	if err != nil {
		t.Fatalf("CreateTorrent: %v", err)
	}
	if result.InfoHashV2 == "" {
		t.Error("expected non-empty InfoHashV2")
	}
	if result.InfoHash != "" {
		t.Error("v2 mode should not set InfoHash")
	}
}

func TestCreateTorrent_hybridInsertsPadding(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.txt", 100, 0x01)
	writeTempFile(t, dir, "b.txt", 300, 0x02)

	result, err := CreateTorrent(CreateOptions{
		Path:           dir,
		Mode:           ModeHybrid,
		PieceLengthExp: mustPtr(uint(18)),
		NoCreator:      true,
		NoDate:         true,
	})
	if err != nil {
		t.Fatalf("CreateTorrent: %v", err)
	}
	if result.InfoHash == "" || result.InfoHashV2 == "" {
		t.Error("hybrid mode should set both infohashes")
	}

	decoded, err := bencode.Decode(bytes.NewReader(result.Bytes))
	if err != nil {
		t.Fatal(err)
	}
	doc := decoded.(bencode.Dict)
	info := doc["info"].(bencode.Dict)
	files, ok := info["files"].(bencode.List)
	if !ok {
		t.Fatal("expected files list in hybrid info dict")
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 entries (file, pad, file), got %d", len(files))
	}
	pad := files[1].(bencode.Dict)
	if string(pad["attr"].([]byte)) != "p" {
		t.Error("middle entry should be a padding file with attr=p")
	}
}

func TestCreate_refusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.bin", 10, 0x01)
	out := filepath.Join(dir, "out.torrent")
	if err := os.WriteFile(out, []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Create(CreateOptions{
		Path:           filepath.Join(dir, "a.bin"),
		Mode:           ModeV1,
		PieceLengthExp: mustPtr(uint(15)),
		NoCreator:      true,
		NoDate:         true,
	}, out, false)
	if err == nil {
		t.Error("expected error when output exists without force")
	}
}
