// Package trackers holds known-tracker piece-size and size-limit profiles,
// consulted by the piece planner and by torrent validation.
package trackers

import "strings"

// PieceSizeRange maps a maximum content size to the piece-size exponent
// a tracker recommends for content up to that size.
type PieceSizeRange struct {
	MaxSize  uint64
	PieceExp uint
}

// Config holds tracker-specific piece-size and size-limit rules.
type Config struct {
	URLs             []string
	PiecesTarget     uint
	MaxPieceLength   uint
	PieceSizeRanges  []PieceSizeRange
	UseDefaultRanges bool
	MaxTorrentSize   uint64
}

// configs maps known tracker base URLs to their configuration. Grounded on
// the teacher's internal/torrent/trackers.go table.
var configs = []Config{
	{
		URLs:           []string{"anthelion.me"},
		MaxTorrentSize: 250 << 10,
	},
	{
		URLs:             []string{"passthepopcorn.me", "hdbits.org"},
		MaxPieceLength:   24,
		UseDefaultRanges: true,
	},
	{
		URLs:             []string{"empornium.sx", "morethantv.me"},
		MaxPieceLength:   23,
		UseDefaultRanges: true,
	},
	{
		URLs:           []string{"gazellegames.net"},
		MaxPieceLength: 26,
		PieceSizeRanges: []PieceSizeRange{
			{MaxSize: 64 << 20, PieceExp: 15},
			{MaxSize: 128 << 20, PieceExp: 16},
			{MaxSize: 256 << 20, PieceExp: 17},
			{MaxSize: 512 << 20, PieceExp: 18},
			{MaxSize: 1024 << 20, PieceExp: 19},
			{MaxSize: 2048 << 20, PieceExp: 20},
			{MaxSize: 4096 << 20, PieceExp: 21},
			{MaxSize: 8192 << 20, PieceExp: 22},
			{MaxSize: 16384 << 20, PieceExp: 23},
			{MaxSize: 32768 << 20, PieceExp: 24},
			{MaxSize: 65536 << 20, PieceExp: 25},
			{MaxSize: 131072 << 20, PieceExp: 26},
		},
		UseDefaultRanges: false,
		MaxTorrentSize:   1 << 20,
	},
}

// FindTrackerConfig returns the config whose URL list contains a substring
// of trackerURL, or nil if none matches.
func FindTrackerConfig(trackerURL string) *Config {
	for i := range configs {
		for _, u := range configs[i].URLs {
			if strings.Contains(trackerURL, u) {
				return &configs[i]
			}
		}
	}
	return nil
}

// Known reports whether trackerURL matches a configured tracker profile.
func Known(trackerURL string) bool {
	return FindTrackerConfig(trackerURL) != nil
}

// GetTrackerPiecesTarget returns the tracker's preferred piece count, if known.
func GetTrackerPiecesTarget(trackerURL string) (uint, bool) {
	if c := FindTrackerConfig(trackerURL); c != nil {
		return c.PiecesTarget, c.PiecesTarget > 0
	}
	return 0, false
}

// GetTrackerMaxPieceLength returns the tracker's hard maximum piece-length
// exponent, if known.
func GetTrackerMaxPieceLength(trackerURL string) (uint, bool) {
	if c := FindTrackerConfig(trackerURL); c != nil {
		return c.MaxPieceLength, c.MaxPieceLength > 0
	}
	return 0, false
}

// GetTrackerPieceSizeExp returns the recommended piece-size exponent for a
// given content size on a given tracker.
func GetTrackerPieceSizeExp(trackerURL string, contentSize uint64) (uint, bool) {
	c := FindTrackerConfig(trackerURL)
	if c == nil || len(c.PieceSizeRanges) == 0 {
		return 0, false
	}
	for _, r := range c.PieceSizeRanges {
		if contentSize <= r.MaxSize {
			return r.PieceExp, true
		}
	}
	if !c.UseDefaultRanges {
		return c.PieceSizeRanges[len(c.PieceSizeRanges)-1].PieceExp, true
	}
	return 0, false
}

// GetTrackerMaxTorrentSize returns the tracker's maximum allowed .torrent
// file size in bytes, if known.
func GetTrackerMaxTorrentSize(trackerURL string) (uint64, bool) {
	if c := FindTrackerConfig(trackerURL); c != nil {
		return c.MaxTorrentSize, c.MaxTorrentSize > 0
	}
	return 0, false
}
