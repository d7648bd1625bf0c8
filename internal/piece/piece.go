// Package piece selects and validates piece length exponents and derives
// piece counts from total content size.
package piece

import (
	"fmt"
	"math"

	"github.com/tajoumaru/torrite/internal/trackers"
)

// Mode selects which BitTorrent metainfo generation this plan serves,
// which changes the exponent floor (v2/hybrid require 16 KiB-aligned
// pieces; v1 has no hard floor beyond the practical minimum).
type Mode int

const (
	ModeV1 Mode = iota
	ModeV2
	ModeHybrid
)

// Options configures piece-length selection.
type Options struct {
	// Exp, when non-nil, forces the piece-length exponent (still validated
	// against bounds). When nil, the exponent is computed automatically.
	Exp *uint
	// MaxExp caps the automatically-chosen exponent.
	MaxExp *uint
	// PiecesTarget requests a best-effort piece count; the closest power
	// of two piece length is chosen within bounds.
	PiecesTarget *uint
	TrackerURL   string
	Mode         Mode
}

// minExp/maxExp are the hard bounds spec.md §4.2 assigns: 2^15 minimum for
// user-supplied exponents (2^14 permitted floor for v2/hybrid), 2^27 max.
const (
	minExpV1    = uint(15)
	minExpV2    = uint(14)
	maxExpBound = uint(27)
)

// Plan is the resolved piece-length/count pair for a given content size.
type Plan struct {
	Exp    uint
	Length int64
	Count  int
}

// Calculate resolves a Plan for totalSize under opts.
func Calculate(totalSize int64, opts Options) (Plan, error) {
	minExp := minExpV1
	if opts.Mode != ModeV1 {
		minExp = minExpV2
	}

	if opts.Exp != nil {
		exp := *opts.Exp
		if exp < minExp || exp > maxExpBound {
			return Plan{}, fmt.Errorf("piece length exponent must be between %d and %d, got: %d", minExp, maxExpBound, exp)
		}
		return planFor(exp, totalSize), nil
	}

	exp := calculateExponent(totalSize, opts.MaxExp, opts.PiecesTarget, opts.TrackerURL, minExp)
	return planFor(exp, totalSize), nil
}

func planFor(exp uint, totalSize int64) Plan {
	length := int64(1) << exp
	count := int((totalSize + length - 1) / length)
	if count == 0 {
		count = 1
	}
	return Plan{Exp: exp, Length: length, Count: count}
}

// calculateExponent ports the teacher's calculatePieceLength: tracker
// overrides take precedence, then a user pieces-target (best effort),
// then a static size-threshold table, all clamped to [minExp, maxExp].
func calculateExponent(totalSize int64, maxPieceLength *uint, piecesTarget *uint, trackerURL string, minExp uint) uint {
	maxExp := maxExpBound

	if trackerURL != "" {
		if trackerMaxExp, ok := trackers.GetTrackerMaxPieceLength(trackerURL); ok {
			maxExp = trackerMaxExp
		}
		if exp, ok := trackers.GetTrackerPieceSizeExp(trackerURL, uint64(totalSize)); ok {
			return clamp(exp, minExp, maxExp)
		}
	}

	if maxPieceLength != nil {
		if *maxPieceLength < minExp {
			return minExp
		}
		if *maxPieceLength < maxExp {
			maxExp = *maxPieceLength
		}
	}

	if piecesTarget != nil && *piecesTarget > 0 {
		exp := targetExponent(totalSize, *piecesTarget)
		return clamp(exp, minExp, maxExp)
	}

	if trackerURL != "" {
		if target, ok := trackers.GetTrackerPiecesTarget(trackerURL); ok {
			exp := targetExponent(totalSize, target)
			return clamp(exp, minExp, maxExp)
		}
	}

	size := totalSize
	if size < 1 {
		size = 1
	}

	var exp uint
	switch {
	case size <= 58<<20:
		exp = 16
	case size <= 122<<20:
		exp = 17
	case size <= 213<<20:
		exp = 18
	case size <= 444<<20:
		exp = 19
	case size <= 922<<20:
		exp = 20
	case size <= 3977<<20:
		exp = 21
	case size <= 6861<<20:
		exp = 22
	case size <= 14234<<20:
		exp = 23
	default:
		exp = 24
	}
	return clamp(exp, minExp, maxExp)
}

func targetExponent(totalSize int64, target uint) uint {
	targetLen := float64(totalSize) / float64(target)
	if targetLen < 1 {
		targetLen = 1
	}
	return uint(math.Round(math.Log2(targetLen)))
}

func clamp(exp, min, max uint) uint {
	if exp < min {
		return min
	}
	if exp > max {
		return max
	}
	return exp
}
