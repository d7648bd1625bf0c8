// Package modify rewrites fields of an already-created torrent document
// (trackers, web seeds, comment, private flag, source, creator/date)
// without re-hashing its piece data.
package modify

import (
	"fmt"
	"os"
	"time"

	"github.com/tajoumaru/torrite/internal/preset"
	"github.com/tajoumaru/torrite/internal/torrent"
	"github.com/tajoumaru/torrite/internal/torrentutils"
)

// Options represents the options for modifying a torrent, including both
// preset-related options and flag-based overrides.
type Options struct {
	PresetName     string
	PresetFile     string
	OutputDir      string
	NoDate         bool
	NoCreator      bool
	DryRun         bool
	Verbose        bool
	TrackerURL     string
	WebSeeds       []string
	IsPrivate      *bool
	Comment        string
	PieceLengthExp *uint
	MaxPieceLength *uint
	Source         string
	Version        string
}

// Result represents the result of modifying a torrent.
type Result struct {
	Path        string
	OutputPath  string
	WasModified bool
	MetaInfo    *torrent.MetaInfo
	Error       error
}

// ModifyTorrent modifies a single torrent file according to the given
// options and, unless DryRun is set, writes the result to a new file.
func ModifyTorrent(path string, opts Options) (*Result, error) {
	result := &Result{Path: path}

	mi, err := torrent.LoadFromFile(path)
	if err != nil {
		result.Error = fmt.Errorf("could not load torrent: %w", err)
		return result, result.Error
	}
	result.MetaInfo = mi

	var presetOpts *preset.Options
	if opts.PresetName != "" {
		presetPath, err := preset.FindPresetFile(opts.PresetFile)
		if err != nil {
			result.Error = fmt.Errorf("could not find preset file: %w", err)
			return result, result.Error
		}

		presets, err := preset.Load(presetPath)
		if err != nil {
			result.Error = fmt.Errorf("could not load presets: %w", err)
			return result, result.Error
		}

		presetOpts, err = presets.GetPreset(opts.PresetName)
		if err != nil {
			result.Error = fmt.Errorf("could not get preset: %w", err)
			return result, result.Error
		}
	}

	wasModified := false

	trackerURL := opts.TrackerURL
	if trackerURL == "" && presetOpts != nil && len(presetOpts.Trackers) > 0 {
		trackerURL = presetOpts.Trackers[0]
	}
	if trackerURL != "" && mi.Announce != trackerURL {
		torrentutils.UpdateTrackers(mi, trackerURL)
		wasModified = true
	}

	webSeeds := opts.WebSeeds
	if len(webSeeds) == 0 && presetOpts != nil {
		webSeeds = presetOpts.WebSeeds
	}
	if len(webSeeds) > 0 {
		torrentutils.UpdateWebSeeds(mi, webSeeds)
		wasModified = true
	}

	comment := opts.Comment
	if comment == "" && presetOpts != nil {
		comment = presetOpts.Comment
	}
	if comment != "" && mi.Comment != comment {
		torrentutils.UpdateComment(mi, comment)
		wasModified = true
	}

	isPrivate := opts.IsPrivate
	if isPrivate == nil && presetOpts != nil {
		p := presetOpts.Private
		isPrivate = &p
	}
	if isPrivate != nil {
		modified, err := torrentutils.UpdatePrivateFlag(mi, isPrivate)
		if err != nil {
			result.Error = fmt.Errorf("could not update private flag: %w", err)
			return result, result.Error
		}
		wasModified = wasModified || modified
	}

	source := opts.Source
	if source == "" && presetOpts != nil {
		source = presetOpts.Source
	}
	if source != "" {
		modified, err := torrentutils.UpdateSource(mi, source)
		if err != nil {
			result.Error = fmt.Errorf("could not update source: %w", err)
			return result, result.Error
		}
		wasModified = wasModified || modified
	}

	if !wasModified {
		return result, nil
	}

	noCreator := opts.NoCreator
	noDate := opts.NoDate
	if presetOpts != nil {
		noDate = noDate || presetOpts.NoDate
	}

	creator := fmt.Sprintf("torrite/%s", opts.Version)
	torrentutils.UpdateCreatorAndDate(mi, creator, noCreator, noDate, time.Now().Unix())

	if opts.DryRun {
		result.WasModified = true
		return result, nil
	}

	outPath := preset.GenerateOutputPath(path, opts.OutputDir, opts.PresetName, trackerURL)
	result.OutputPath = outPath

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			result.Error = fmt.Errorf("could not create output directory: %w", err)
			return result, result.Error
		}
	}

	if err := mi.SaveToFile(outPath); err != nil {
		result.Error = fmt.Errorf("could not save output file: %w", err)
		return result, result.Error
	}

	result.WasModified = true
	return result, nil
}

// ProcessTorrents modifies multiple torrent files according to the given
// options, continuing past per-file errors so one bad file doesn't abort
// a batch.
func ProcessTorrents(paths []string, opts Options) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no torrent files specified")
	}

	results := make([]*Result, 0, len(paths))
	for _, path := range paths {
		result, err := ModifyTorrent(path, opts)
		if err != nil {
			result.Error = err
		}
		results = append(results, result)
	}

	return results, nil
}
