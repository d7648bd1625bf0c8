package torrent

// Displayer receives progress and status events from the Orchestrator.
// Generalizes the teacher's Displayer interface down to what the
// Hashing Engine and Orchestrator actually drive; CLI-only concerns
// (file trees, batch summaries) live in internal/display, which
// implements this interface.
type Displayer interface {
	ShowProgress(total int)
	UpdateProgress(completed int)
	FinishProgress()
	ShowMessage(msg string)
	ShowWarning(msg string)
}

// nopDisplay discards every event; used when CreateOptions.Display is nil.
type nopDisplay struct{}

func (nopDisplay) ShowProgress(int)      {}
func (nopDisplay) UpdateProgress(int)    {}
func (nopDisplay) FinishProgress()       {}
func (nopDisplay) ShowMessage(string)    {}
func (nopDisplay) ShowWarning(string)    {}
