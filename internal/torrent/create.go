package torrent

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tajoumaru/torrite/internal/bencode"
	"github.com/tajoumaru/torrite/internal/piece"
	"github.com/tajoumaru/torrite/internal/scanner"
	"github.com/tajoumaru/torrite/internal/utils"
)

// numWorkers picks a worker pool size: the caller's explicit thread
// count, or CPU count capped the way the teacher's CreateTorrent capped
// its default (never more than 4 unless the caller opts in explicitly).
func numWorkers(threads int) int {
	if threads > 0 {
		return threads
	}
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CreateTorrent runs the pipeline (Scanner -> Piece Planner -> Hashing
// Engine -> Merkle Tree Builder -> Info Dictionary Assembler -> Bencode
// Encoder) and returns the serialized document plus infohash(es), without
// touching the filesystem beyond reading the source content.
func CreateTorrent(opts CreateOptions) (*Result, error) {
	display := opts.Display
	if display == nil {
		display = nopDisplay{}
	}

	if opts.CrossSeed && len(opts.Entropy) == 0 {
		entropy := make([]byte, 8)
		if _, err := rand.Read(entropy); err != nil {
			return nil, fmt.Errorf("could not generate cross-seed entropy: %w", err)
		}
		opts.Entropy = entropy
	}

	scanResult, err := scanner.Scan(opts.Path, scanner.Options{
		Name:    opts.Name,
		Exclude: opts.Exclude,
		Include: opts.Include,
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning target: %w", err)
	}

	plan, err := piece.Calculate(scanResult.TotalSize, piece.Options{
		Exp:          opts.PieceLengthExp,
		MaxExp:       opts.MaxPieceLength,
		PiecesTarget: opts.PiecesTarget,
		TrackerURL:   opts.TrackerURL,
		Mode:         opts.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("error computing piece length: %w", err)
	}

	workers := numWorkers(opts.Threads)

	var completed int64
	progress := func() {
		n := atomic.AddInt64(&completed, 1)
		display.UpdateProgress(int(n))
	}

	var info bencode.Dict
	var pieceLayers bencode.Dict
	var pieces []byte

	switch opts.Mode {
	case ModeV1:
		display.ShowProgress(plan.Count)
		pieces, err = v1Pipeline(scanResult.Files, plan.Length, plan.Count, workers, progress, display)
		if err != nil {
			return nil, fmt.Errorf("error hashing pieces: %w", err)
		}
		info = AssembleV1(scanResult.Name, scanResult.Files, plan.Length, pieces, scanResult.SingleFile, opts.Private, opts.Source, opts.Entropy)

	case ModeV2:
		display.ShowProgress(len(scanResult.Files))
		results, err := v2Pipeline(scanResult.Files, plan.Length, workers, progress, display)
		if err != nil {
			return nil, fmt.Errorf("error hashing files: %w", err)
		}
		info, pieceLayers = AssembleV2(scanResult.Name, scanResult.Files, plan.Length, results, opts.Private, opts.Source, opts.Entropy)

	case ModeHybrid:
		display.ShowProgress(len(scanResult.Files))
		results, err := hybridPipeline(scanResult.Files, plan.Length, workers, progress, display)
		if err != nil {
			return nil, fmt.Errorf("error hashing files: %w", err)
		}
		info, pieceLayers = AssembleHybrid(scanResult.Name, scanResult.Files, plan.Length, results, scanResult.SingleFile, opts.Private, opts.Source, opts.Entropy)

	default:
		return nil, fmt.Errorf("unknown mode: %v", opts.Mode)
	}
	display.FinishProgress()

	infoBytes, err := bencode.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("error encoding info dictionary: %w", err)
	}

	result := &Result{
		Name:        scanResult.Name,
		Mode:        opts.Mode,
		PieceLength: plan.Length,
		NumPieces:   plan.Count,
		TotalSize:   scanResult.TotalSize,
		Files:       scanResult.Files,
	}

	if opts.Mode == ModeV1 || opts.Mode == ModeHybrid {
		sum := sha1.Sum(infoBytes)
		result.InfoHash = hex.EncodeToString(sum[:])
	}
	if opts.Mode == ModeV2 || opts.Mode == ModeHybrid {
		sum := sha256.Sum256(infoBytes)
		result.InfoHashV2 = hex.EncodeToString(sum[:])
	}

	doc := bencode.Dict{"info": info}
	if opts.TrackerURL != "" {
		doc["announce"] = []byte(opts.TrackerURL)
	}
	if len(opts.Trackers) > 1 {
		tiers := make(bencode.List, len(opts.Trackers))
		for i, t := range opts.Trackers {
			tiers[i] = bencode.List{[]byte(t)}
		}
		doc["announce-list"] = tiers
	}
	if len(opts.WebSeeds) > 0 {
		urls := make(bencode.List, len(opts.WebSeeds))
		for i, u := range opts.WebSeeds {
			urls[i] = []byte(u)
		}
		doc["url-list"] = urls
	}
	if opts.Comment != "" {
		doc["comment"] = []byte(opts.Comment)
	}
	if !opts.NoCreator {
		version := opts.Version
		if version == "" {
			version = "dev"
		}
		doc["created by"] = []byte(fmt.Sprintf("torrite/%s", version))
	}
	if !opts.NoDate {
		ts := time.Now().Unix()
		if opts.CreationTime != nil {
			ts = *opts.CreationTime
		}
		doc["creation date"] = ts
	}
	if len(pieceLayers) > 0 {
		doc["piece layers"] = pieceLayers
	}

	docBytes, err := bencode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding torrent document: %w", err)
	}
	result.Bytes = docBytes

	return result, nil
}

// Create runs CreateTorrent and writes the result to outputPath (".torrent"
// is appended if missing). An empty outputPath defaults to the sanitized
// opts.Name, or the target's base name, plus ".torrent". An existing file
// is not overwritten unless force is set.
func Create(opts CreateOptions, outputPath string, force bool) (*Result, error) {
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", opts.Path, err)
	}

	if outputPath == "" {
		name := opts.Name
		if name == "" {
			name = filepath.Base(filepath.Clean(opts.Path))
		}
		outputPath = utils.SanitizeFilename(name) + ".torrent"
	} else if !strings.HasSuffix(outputPath, ".torrent") {
		outputPath = outputPath + ".torrent"
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return nil, fmt.Errorf("output file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	result, err := CreateTorrent(opts)
	if err != nil {
		return nil, err
	}
	result.OutputPath = outputPath

	if err := os.WriteFile(outputPath, result.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("error writing torrent file: %w", err)
	}

	return result, nil
}
