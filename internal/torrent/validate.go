package torrent

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tajoumaru/torrite/internal/trackers"
)

// ValidationStatus represents the outcome of a single rule check.
type ValidationStatus string

const (
	ValidationPass ValidationStatus = "PASS"
	ValidationFail ValidationStatus = "FAIL"
	ValidationWarn ValidationStatus = "WARN"
	ValidationInfo ValidationStatus = "INFO"
	ValidationSkip ValidationStatus = "SKIP"
)

// ValidationResult holds the outcome of a single validation rule check.
type ValidationResult struct {
	Rule    string           `json:"rule"`
	Status  ValidationStatus `json:"status"`
	Message string           `json:"message"`
}

// ValidateAgainstTrackerRules checks a decoded torrent's metadata against
// the known rule set for trackerURL, per internal/trackers's profile
// tables.
func ValidateAgainstTrackerRules(mi *MetaInfo, trackerURL string, rawTorrentBytes []byte) []ValidationResult {
	var results []ValidationResult

	displayURL := trackerURL
	if parsed, err := url.Parse(trackerURL); err == nil && parsed.Host != "" {
		displayURL = parsed.Scheme + "://" + parsed.Host + "/..."
	}

	announceMatch := mi.Announce == trackerURL
	if !announceMatch {
		for _, tier := range mi.AnnounceList {
			for _, announce := range tier {
				if announce == trackerURL || strings.Contains(announce, trackerURL) {
					announceMatch = true
					break
				}
			}
			if announceMatch {
				break
			}
		}
	}
	if announceMatch {
		results = append(results, ValidationResult{
			Rule: "Announce URL", Status: ValidationPass,
			Message: "Torrent contains an announce URL matching the specified tracker.",
		})
	} else {
		results = append(results, ValidationResult{
			Rule: "Announce URL", Status: ValidationFail,
			Message: fmt.Sprintf("Torrent does not contain an announce URL matching %s.", displayURL),
		})
	}

	if !trackers.Known(trackerURL) {
		results = append(results, ValidationResult{
			Rule: "Tracker Recognition", Status: ValidationSkip,
			Message: fmt.Sprintf("No specific rules found for tracker URL containing %q.", displayURL),
		})
		return results
	}

	if mi.Private {
		results = append(results, ValidationResult{Rule: "Private Flag", Status: ValidationPass, Message: "Torrent is marked as private."})
	} else {
		results = append(results, ValidationResult{Rule: "Private Flag", Status: ValidationFail, Message: "Torrent is not marked as private, but the tracker likely requires it."})
	}

	currentExp := expOf(mi.PieceLength)

	if maxExp, ok := trackers.GetTrackerMaxPieceLength(trackerURL); ok {
		if uint(currentExp) > maxExp {
			results = append(results, ValidationResult{
				Rule: "Piece Size Limit", Status: ValidationFail,
				Message: fmt.Sprintf("Piece size %s exceeds tracker limit of %s.", FormatPieceSize(uint(currentExp)), FormatPieceSize(maxExp)),
			})
		} else {
			results = append(results, ValidationResult{
				Rule: "Piece Size Limit", Status: ValidationPass,
				Message: fmt.Sprintf("Piece size %s is within tracker limit of %s.", FormatPieceSize(uint(currentExp)), FormatPieceSize(maxExp)),
			})
		}
	} else {
		results = append(results, ValidationResult{Rule: "Piece Size Limit", Status: ValidationInfo, Message: fmt.Sprintf("No specific piece size limit known for this tracker. Current size: %s.", FormatPieceSize(uint(currentExp)))})
	}

	if maxTorrentSize, ok := trackers.GetTrackerMaxTorrentSize(trackerURL); ok {
		if uint64(len(rawTorrentBytes)) > maxTorrentSize {
			results = append(results, ValidationResult{Rule: "Torrent File Size", Status: ValidationFail, Message: fmt.Sprintf("Torrent file size %s exceeds tracker limit of %s.", FormatBytes(int64(len(rawTorrentBytes))), FormatBytes(int64(maxTorrentSize)))})
		} else {
			results = append(results, ValidationResult{Rule: "Torrent File Size", Status: ValidationPass, Message: fmt.Sprintf("Torrent file size %s is within tracker limit of %s.", FormatBytes(int64(len(rawTorrentBytes))), FormatBytes(int64(maxTorrentSize)))})
		}
	}

	if recommendedExp, ok := trackers.GetTrackerPieceSizeExp(trackerURL, uint64(mi.TotalLength())); ok {
		if uint(currentExp) != recommendedExp {
			results = append(results, ValidationResult{Rule: "Recommended Piece Size", Status: ValidationWarn, Message: fmt.Sprintf("Current piece size (%s) differs from tracker recommendation (%s) for this content size.", FormatPieceSize(uint(currentExp)), FormatPieceSize(recommendedExp))})
		} else {
			results = append(results, ValidationResult{Rule: "Recommended Piece Size", Status: ValidationPass, Message: fmt.Sprintf("Current piece size (%s) matches tracker recommendation.", FormatPieceSize(uint(currentExp)))})
		}
	}

	return results
}

func expOf(n int64) int {
	exp := 0
	for p := n; p > 1; p >>= 1 {
		exp++
	}
	return exp
}

func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatPieceSize(exp uint) string {
	if exp < 10 {
		return fmt.Sprintf("%d B", int64(1)<<exp)
	}
	size := uint64(1) << (exp - 10)
	if size >= 1024 {
		return fmt.Sprintf("%d MiB", size/1024)
	}
	return fmt.Sprintf("%d KiB", size)
}
