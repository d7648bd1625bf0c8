// Package display renders progress and status output during torrent
// creation. Generalizes the teacher's internal/display: the same
// fatih/color + dustin/go-humanize + schollz/progressbar/v3 stack, now
// driven directly by the Hashing Engine's piece/file completion counter
// instead of a GUI-aware batch mode.
package display

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	progressbar "github.com/schollz/progressbar/v3"

	"github.com/tajoumaru/torrite/internal/scanner"
	"github.com/tajoumaru/torrite/internal/torrent"
)

var (
	magenta    = color.New(color.FgMagenta).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	success    = color.New(color.FgGreen).SprintFunc()
	label      = color.New(color.FgCyan).SprintFunc()
	highlight  = color.New(color.FgHiWhite).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// Formatter renders byte counts and durations consistently across
// verbose and quiet modes.
type Formatter struct {
	verbose bool
}

func NewFormatter(verbose bool) *Formatter {
	return &Formatter{verbose: verbose}
}

func (f *Formatter) FormatBytes(n int64) string {
	return humanize.IBytes(uint64(n))
}

// Display implements Displayer and TorrentDisplayer.
type Display struct {
	formatter *Formatter
	bar       *progressbar.ProgressBar
	quiet     bool
}

func NewDisplay(formatter *Formatter, quiet bool) *Display {
	return &Display{formatter: formatter, quiet: quiet}
}

func (d *Display) ShowProgress(total int) {
	if d.quiet {
		return
	}
	fmt.Println()
	d.bar = progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Hashing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (d *Display) UpdateProgress(completed int) {
	if d.quiet || d.bar == nil {
		return
	}
	if err := d.bar.Set(completed); err != nil {
		log.Printf("failed to update progress bar: %v", err)
	}
}

func (d *Display) FinishProgress() {
	if d.quiet || d.bar == nil {
		return
	}
	if err := d.bar.Finish(); err != nil {
		log.Printf("failed to finish progress bar: %v", err)
	}
	fmt.Println()
}

func (d *Display) ShowMessage(msg string) {
	fmt.Printf("%s %s\n", success("Info:"), msg)
}

func (d *Display) ShowWarning(msg string) {
	fmt.Printf("%s %s\n", yellow("Warning:"), msg)
}

func (d *Display) ShowFiles(files []scanner.FileEntry) {
	if d.quiet {
		return
	}
	fmt.Printf("\n%s\n", magenta("Files being hashed:"))
	for i, f := range files {
		prefix := "  ├─"
		if i == len(files)-1 {
			prefix = "  └─"
		}
		name := f.RelPath()
		if name == "" {
			name = filepath.Base(f.Abs)
		}
		fmt.Printf("%s %s (%s)\n", prefix, success(name), label(d.formatter.FormatBytes(f.Length)))
	}
}

func (d *Display) ShowOutputPathWithTime(path string, elapsedMillis int64) {
	if elapsedMillis < 1000 {
		fmt.Printf("\n%s %s (%s)\n", success("Wrote"), path, magenta(fmt.Sprintf("elapsed %dms", elapsedMillis)))
		return
	}
	fmt.Printf("\n%s %s (%s)\n", success("Wrote"), path, magenta(fmt.Sprintf("elapsed %.2fs", float64(elapsedMillis)/1000)))
}

// ShowError prints a fatal error in red, matching the teacher's CLI tone.
func ShowError(msg string) {
	fmt.Println(errorColor(msg))
}

// ShowTrackerLine prints a single tracker URL, used by inspect/verify.
func ShowTrackerLine(url string) {
	fmt.Printf("    %s\n", highlight(url))
}

// ShowTorrentInfo prints a decoded torrent's summary fields, used by
// inspect and modify (after a rewrite, to confirm what changed).
func ShowTorrentInfo(mi *torrent.MetaInfo, verbose bool) {
	fmt.Printf("\n%s %s\n", magenta("Name:"), highlight(mi.Name))
	fmt.Printf("%s %s\n", label("Size:"), humanize.IBytes(uint64(mi.TotalLength())))
	fmt.Printf("%s %s\n", label("Piece length:"), humanize.IBytes(uint64(mi.PieceLength)))

	if mi.MetaVersion == 2 && len(mi.Pieces) > 0 {
		fmt.Printf("%s %s\n", label("Meta version:"), "hybrid (BEP 47)")
	} else if mi.MetaVersion == 2 {
		fmt.Printf("%s %s\n", label("Meta version:"), "2 (BEP 52)")
	}

	if hash := safeHashV1(mi); hash != "" {
		fmt.Printf("%s %s\n", label("Infohash (v1):"), hash)
	}
	if mi.MetaVersion == 2 {
		fmt.Printf("%s %s\n", label("Infohash (v2):"), mi.HashInfoBytesV2())
	}

	fmt.Printf("%s %t\n", label("Private:"), mi.Private)
	if mi.Source != "" {
		fmt.Printf("%s %s\n", label("Source:"), mi.Source)
	}
	if mi.Comment != "" {
		fmt.Printf("%s %s\n", label("Comment:"), mi.Comment)
	}
	if mi.CreatedBy != "" {
		fmt.Printf("%s %s\n", label("Created by:"), mi.CreatedBy)
	}
	if mi.CreationDate != 0 {
		fmt.Printf("%s %s\n", label("Created on:"), time.Unix(mi.CreationDate, 0).UTC().Format(time.RFC3339))
	}

	if mi.Announce != "" {
		fmt.Printf("\n%s\n", magenta("Trackers:"))
		ShowTrackerLine(mi.Announce)
	}
	for _, tier := range mi.AnnounceList {
		for _, u := range tier {
			if u != mi.Announce {
				ShowTrackerLine(u)
			}
		}
	}
	if len(mi.UrlList) > 0 {
		fmt.Printf("\n%s\n", magenta("Web seeds:"))
		for _, u := range mi.UrlList {
			ShowTrackerLine(u)
		}
	}

	if verbose {
		ShowFileTree(mi)
	}
}

func safeHashV1(mi *torrent.MetaInfo) string {
	if mi.MetaVersion == 2 && len(mi.Pieces) == 0 {
		return ""
	}
	return mi.HashInfoBytes()
}

// ShowFileTree prints the files inside a decoded torrent.
func ShowFileTree(mi *torrent.MetaInfo) {
	if !mi.IsDir() {
		fmt.Printf("\n%s\n", magenta("Files:"))
		fmt.Printf("  └─ %s (%s)\n", success(mi.Name), label(humanize.IBytes(uint64(mi.Length))))
		return
	}
	fmt.Printf("\n%s\n", magenta("Files:"))
	for i, f := range mi.Files {
		prefix := "  ├─"
		if i == len(mi.Files)-1 {
			prefix = "  └─"
		}
		fmt.Printf("%s %s (%s)\n", prefix, success(filepath.Join(f.Path...)), label(humanize.IBytes(uint64(f.Length))))
	}
}

// ShowValidationResults prints the outcome of tracker-rule validation.
func ShowValidationResults(results []torrent.ValidationResult) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("\n%s\n", magenta("Tracker rule validation:"))
	for _, r := range results {
		var status string
		switch r.Status {
		case torrent.ValidationPass:
			status = success(r.Status)
		case torrent.ValidationFail:
			status = errorColor(r.Status)
		case torrent.ValidationWarn:
			status = yellow(r.Status)
		default:
			status = string(r.Status)
		}
		pad := strings.Repeat(" ", max(0, 4-len(r.Status)))
		fmt.Printf("  [%s]%s %s: %s\n", status, pad, label(r.Rule), r.Message)
	}
}
