package display

import "github.com/tajoumaru/torrite/internal/scanner"

// Displayer is the progress/status sink the Hashing Engine and
// Orchestrator drive (mirrors internal/torrent.Displayer structurally so
// *Display satisfies it without an import cycle).
type Displayer interface {
	ShowProgress(total int)
	UpdateProgress(completed int)
	FinishProgress()
	ShowMessage(msg string)
	ShowWarning(msg string)
}

// TorrentDisplayer renders a completed build's summary to the terminal;
// kept separate from Displayer because verify/inspect callers want it
// without the progress-bar lifecycle.
type TorrentDisplayer interface {
	ShowFiles(files []scanner.FileEntry)
	ShowOutputPathWithTime(path string, elapsedMillis int64)
}
