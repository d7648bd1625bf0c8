package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tajoumaru/torrite/internal/display"
	"github.com/tajoumaru/torrite/internal/modify"
)

var (
	modifyPresetName string
	modifyPresetFile string
	modifyOutputDir  string
	modifyDryRun     bool
	modifyNoDate     bool
	modifyVerbose    bool
	modifyTracker    string
	modifyWebSeeds   []string
	modifyPrivate    bool
	modifyComment    string
	modifySource     string
)

var modifyCmd = &cobra.Command{
	Use:   "modify TORRENT...",
	Short: "Modify existing torrent files",
	Long: `Modify existing torrent files in place semantics: tracker URLs, web seeds,
comment, private flag, and source can be rewritten without re-hashing piece
data. Original files are preserved; new files are written alongside them
(or into --output-dir) with a -<preset> suffix, a -<tracker domain> suffix
when only --announce names the tracker, or a -modified suffix.`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runModify,
	SilenceUsage: true,
}

func init() {
	modifyCmd.Flags().SortFlags = false

	modifyCmd.Flags().StringVarP(&modifyPresetName, "preset", "P", "", "use a named preset from the preset config")
	modifyCmd.Flags().StringVar(&modifyPresetFile, "preset-file", "", "preset config file (default ~/.config/torrite/presets.yaml)")
	modifyCmd.Flags().StringVar(&modifyOutputDir, "output-dir", "", "output directory for modified files")
	modifyCmd.Flags().BoolVarP(&modifyDryRun, "dry-run", "n", false, "show what would be modified without writing anything")
	modifyCmd.Flags().BoolVarP(&modifyNoDate, "no-date", "d", false, "don't update the creation date")
	modifyCmd.Flags().BoolVarP(&modifyVerbose, "verbose", "v", false, "be verbose")

	modifyCmd.Flags().StringVarP(&modifyTracker, "announce", "a", "", "new tracker announce URL")
	modifyCmd.Flags().StringArrayVarP(&modifyWebSeeds, "web-seed", "w", nil, "new web seed URL (repeatable)")
	modifyCmd.Flags().BoolVarP(&modifyPrivate, "private", "p", false, "mark the torrent private")
	modifyCmd.Flags().StringVarP(&modifyComment, "comment", "c", "", "new comment")
	modifyCmd.Flags().StringVarP(&modifySource, "source", "s", "", "new source string")
}

func runModify(cmd *cobra.Command, args []string) error {
	start := time.Now()

	opts := modify.Options{
		PresetName: modifyPresetName,
		PresetFile: modifyPresetFile,
		OutputDir:  modifyOutputDir,
		NoDate:     modifyNoDate,
		DryRun:     modifyDryRun,
		Verbose:    modifyVerbose,
		TrackerURL: modifyTracker,
		WebSeeds:   modifyWebSeeds,
		Comment:    modifyComment,
		Source:     modifySource,
		Version:    version,
	}
	if cmd.Flags().Changed("private") {
		p := modifyPrivate
		opts.IsPrivate = &p
	}

	results, err := modify.ProcessTorrents(args, opts)
	if err != nil {
		return fmt.Errorf("could not process torrent files: %w", err)
	}

	successCount := 0
	for _, result := range results {
		if result.Error != nil {
			display.ShowError(fmt.Sprintf("Error processing %s: %v", result.Path, result.Error))
			continue
		}

		if !result.WasModified {
			fmt.Printf("Skipping %s (no changes needed)\n", result.Path)
			continue
		}

		if opts.DryRun {
			fmt.Printf("Would modify %s\n", result.Path)
			continue
		}

		if opts.Verbose && result.MetaInfo != nil {
			display.ShowTorrentInfo(result.MetaInfo, false)
		}

		fmt.Printf("Wrote %s (%.2fs)\n", result.OutputPath, time.Since(start).Seconds())
		successCount++
	}

	return nil
}
