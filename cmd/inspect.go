package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tajoumaru/torrite/internal/display"
	"github.com/tajoumaru/torrite/internal/preset"
	"github.com/tajoumaru/torrite/internal/torrent"
)

type inspectOptions struct {
	verbose bool
}

var (
	inspectOpts     = inspectOptions{}
	validateTracker string
	outputFormat    string
	cyan            = color.New(color.FgMagenta, color.Bold).SprintFunc()
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <torrent-file>",
	Short: "Inspect a torrent file",
	Long: `Inspect a torrent file, showing its metadata and structure.
Optionally, validate the torrent against known tracker rules.`,
	Args:                       cobra.ExactArgs(1),
	RunE:                       runInspect,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	inspectCmd.Flags().SortFlags = false
	inspectCmd.Flags().BoolVarP(&inspectOpts.verbose, "verbose", "v", false, "show all metadata fields")
	inspectCmd.Flags().StringVarP(&validateTracker, "validate-tracker", "T", "", "validate torrent against rules for a tracker URL or preset name")
	inspectCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "text", "output format ('text' or 'json')")
	inspectCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} <torrent-file> [flags]

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

// resolveTrackerURL treats validateTracker as a preset name first, falling
// back to treating it as a literal tracker URL.
func resolveTrackerURL(name string) (url string, isPreset bool) {
	presetPath, err := preset.FindPresetFile("")
	if err != nil {
		return name, false
	}
	presets, err := preset.Load(presetPath)
	if err != nil {
		return name, false
	}
	presetOpts, err := presets.GetPreset(name)
	if err != nil || len(presetOpts.Trackers) == 0 {
		return name, false
	}
	return presetOpts.Trackers[0], true
}

func runInspect(cmd *cobra.Command, args []string) error {
	torrentPath := args[0]

	rawBytes, err := os.ReadFile(torrentPath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	mi, err := torrent.Parse(rawBytes)
	if err != nil {
		return fmt.Errorf("error loading torrent: %w", err)
	}

	var validationResults []torrent.ValidationResult
	var trackerURL string
	var isPreset bool
	if validateTracker != "" {
		trackerURL, isPreset = resolveTrackerURL(validateTracker)
		validationResults = torrent.ValidateAgainstTrackerRules(mi, trackerURL, rawBytes)
	}

	if strings.ToLower(outputFormat) == "json" {
		jsonData := torrent.GenerateInspectJSON(mi, validationResults)
		jsonBytes, err := json.MarshalIndent(jsonData, "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal JSON data: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	display.ShowTorrentInfo(mi, inspectOpts.verbose)

	if validateTracker != "" {
		displayURL := trackerURL
		if parsed, err := url.Parse(trackerURL); err == nil && parsed.Host != "" {
			displayURL = parsed.Scheme + "://" + parsed.Host + "/..."
		}
		if isPreset {
			fmt.Printf("\n%s %s (using preset '%s')\n", cyan("Validation Results for:"), displayURL, validateTracker)
		} else {
			fmt.Printf("\n%s %s\n", cyan("Validation Results for:"), displayURL)
		}
		display.ShowValidationResults(validationResults)
	}

	return nil
}
