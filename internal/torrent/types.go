// Package torrent implements the Hashing Engine, Merkle Tree Builder, Info
// Dictionary Assembler, and Orchestrator that turn a scanned file list into
// a serialized .torrent document and its infohash(es).
package torrent

import (
	"github.com/tajoumaru/torrite/internal/piece"
	"github.com/tajoumaru/torrite/internal/scanner"
)

// Mode selects which metainfo shape the orchestrator produces.
type Mode = piece.Mode

const (
	ModeV1     = piece.ModeV1
	ModeV2     = piece.ModeV2
	ModeHybrid = piece.ModeHybrid
)

// CreateOptions configures a single end-to-end build.
type CreateOptions struct {
	Path       string
	Name       string
	TrackerURL string // first announce URL; also used for tracker-profile lookup
	Trackers   []string // full announce list; len > 1 emits announce-list tiers
	WebSeeds   []string
	Comment    string
	Source     string
	Private    bool
	NoCreator  bool
	NoDate     bool
	CrossSeed  bool
	Entropy    []byte // injection point for cross_seed_entropy; random if CrossSeed and nil

	Exclude []string
	Include []string

	PieceLengthExp *uint
	MaxPieceLength *uint
	PiecesTarget   *uint

	Threads int
	Mode    Mode
	Version string
	Verbose bool

	// CreationTime overrides time.Now().Unix(); used for reproducible
	// builds (SOURCE_DATE_EPOCH is resolved to this by the CLI layer).
	CreationTime *int64

	Display Displayer
}

// Result is the outcome of a successful build.
type Result struct {
	Bytes       []byte
	InfoHash    string // hex SHA-1, set for v1 and hybrid
	InfoHashV2  string // hex SHA-256, set for v2 and hybrid
	Name        string
	Mode        Mode
	PieceLength int64
	NumPieces   int
	TotalSize   int64
	Files       []scanner.FileEntry
	OutputPath  string
}
