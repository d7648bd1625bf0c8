package cmd

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tajoumaru/torrite/internal/display"
	"github.com/tajoumaru/torrite/internal/piece"
	"github.com/tajoumaru/torrite/internal/preset"
	"github.com/tajoumaru/torrite/internal/scanner"
	"github.com/tajoumaru/torrite/internal/torrent"
)

// createOptions encapsulates all command-line flag values for the create
// command, named after the mktorrent-compatible short flags in spec §6.
type createOptions struct {
	announce       []string // -a
	comment        string   // -c
	noDate         bool     // -d
	exclude        []string // -e
	include        []string // --include
	force          bool     // -f
	pieceLengthExp *uint    // -l
	name           string   // -n
	outputPath     string   // -o
	private        bool     // -p
	source         string   // -s
	threads        int      // -t
	verbose        bool     // -v
	webSeeds       []string // -w
	crossSeed      bool     // -x
	useV2          bool     // --v2
	useHybrid      bool     // --hybrid
	dryRun         bool     // --dry-run

	presetName string // -P
	presetFile string // --preset-file
	quiet      bool   // --quiet
}

var createOpts createOptions

var createCmd = &cobra.Command{
	Use:   "create TARGET",
	Short: "Create a new torrent file",
	Long: `Create a new torrent file from a file or directory.

Produces a BEP 3 (v1), BEP 52 (v2), or BEP 47 (hybrid) metainfo document,
mktorrent-compatible by default.`,
	Args:                       cobra.ExactArgs(1),
	RunE:                       runCreate,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	createCmd.Flags().SortFlags = false

	createCmd.Flags().StringArrayVarP(&createOpts.announce, "announce", "a", nil, "tracker announce URL (repeatable)")
	createCmd.Flags().StringVarP(&createOpts.comment, "comment", "c", "", "add a comment")
	createCmd.Flags().BoolVarP(&createOpts.noDate, "no-date", "d", false, "don't write a creation date")
	createCmd.Flags().StringArrayVarP(&createOpts.exclude, "exclude", "e", nil, "exclude files matching glob (comma-separable, repeatable)")
	createCmd.Flags().StringArrayVar(&createOpts.include, "include", nil, "include only files matching glob (comma-separable, repeatable)")
	createCmd.Flags().BoolVarP(&createOpts.force, "force", "f", false, "overwrite the output file if it exists")

	var pieceLengthExp uint
	createCmd.Flags().UintVarP(&pieceLengthExp, "piece-length", "l", 0, "piece length exponent (15-27, automatic if not specified)")

	createCmd.Flags().StringVarP(&createOpts.name, "name", "n", "", "set the torrent name (default: basename of target)")
	createCmd.Flags().StringVarP(&createOpts.outputPath, "output", "o", "", "set output path (default: <name>.torrent)")
	createCmd.Flags().BoolVarP(&createOpts.private, "private", "p", false, "mark the torrent private")
	createCmd.Flags().StringVarP(&createOpts.source, "source", "s", "", "add a source string")
	createCmd.Flags().IntVarP(&createOpts.threads, "threads", "t", 0, "worker thread count (default: CPU count, capped)")
	createCmd.Flags().BoolVarP(&createOpts.verbose, "verbose", "v", false, "be verbose")
	createCmd.Flags().StringArrayVarP(&createOpts.webSeeds, "web-seed", "w", nil, "web seed URL (repeatable)")
	createCmd.Flags().BoolVarP(&createOpts.crossSeed, "cross-seed", "x", false, "randomize the infohash with an entropy field")
	createCmd.Flags().BoolVar(&createOpts.useV2, "v2", false, "produce a BEP 52 v2-only torrent")
	createCmd.Flags().BoolVar(&createOpts.useHybrid, "hybrid", false, "produce a BEP 47 v1+v2 hybrid torrent")
	createCmd.Flags().BoolVar(&createOpts.dryRun, "dry-run", false, "scan and report the plan without hashing")

	createCmd.Flags().StringVarP(&createOpts.presetName, "preset", "P", "", "use a named preset from the preset config")
	createCmd.Flags().StringVar(&createOpts.presetFile, "preset-file", "", "preset config file (default ~/.config/torrite/presets.yaml)")
	createCmd.Flags().BoolVar(&createOpts.quiet, "quiet", false, "reduced output mode (prints only the final torrent path)")

	createCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if createOpts.useV2 && createOpts.useHybrid {
			return fmt.Errorf("--v2 and --hybrid are mutually exclusive")
		}
		if cmd.Flags().Changed("piece-length") {
			if pieceLengthExp < 15 || pieceLengthExp > 27 {
				return fmt.Errorf("piece-length exponent must be between 15 and 27, got: %d", pieceLengthExp)
			}
			createOpts.pieceLengthExp = &pieceLengthExp
		}
		return nil
	}

	createCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} TARGET [flags]

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

func runCreate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	targetPath := args[0]

	opts := torrent.CreateOptions{
		Path:           targetPath,
		Name:           createOpts.name,
		Comment:        createOpts.comment,
		Source:         createOpts.source,
		Private:        createOpts.private,
		NoDate:         createOpts.noDate,
		CrossSeed:      createOpts.crossSeed,
		Exclude:        splitGlobs(createOpts.exclude),
		Include:        splitGlobs(createOpts.include),
		Threads:        createOpts.threads,
		Mode:           torrent.ModeV1,
		Version:        version,
		Verbose:        createOpts.verbose,
		PieceLengthExp: createOpts.pieceLengthExp,
	}

	if len(createOpts.announce) > 0 {
		opts.TrackerURL = createOpts.announce[0]
		opts.Trackers = createOpts.announce
	}
	opts.WebSeeds = createOpts.webSeeds

	switch {
	case createOpts.useV2:
		opts.Mode = torrent.ModeV2
	case createOpts.useHybrid:
		opts.Mode = torrent.ModeHybrid
	}

	if createOpts.presetName != "" {
		if err := applyPreset(cmd, &opts); err != nil {
			return err
		}
	}

	if createOpts.crossSeed && opts.Entropy == nil {
		entropy := make([]byte, 8)
		if _, err := rand.Read(entropy); err != nil {
			return fmt.Errorf("could not generate cross-seed entropy: %w", err)
		}
		opts.Entropy = entropy
	}

	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" && !opts.NoDate {
		ts, err := strconv.ParseInt(epoch, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SOURCE_DATE_EPOCH: %w", err)
		}
		opts.CreationTime = &ts
	}

	disp := display.NewDisplay(display.NewFormatter(createOpts.verbose), createOpts.quiet)
	opts.Display = disp

	if createOpts.dryRun {
		return runDryRun(opts)
	}

	result, err := torrent.Create(opts, createOpts.outputPath, createOpts.force)
	if err != nil {
		return err
	}

	if createOpts.quiet {
		fmt.Println("Wrote:", result.OutputPath)
		return nil
	}

	disp.ShowFiles(result.Files)
	disp.ShowOutputPathWithTime(result.OutputPath, time.Since(start).Milliseconds())
	if result.InfoHash != "" {
		fmt.Printf("Infohash (v1): %s\n", result.InfoHash)
	}
	if result.InfoHashV2 != "" {
		fmt.Printf("Infohash (v2): %s\n", result.InfoHashV2)
	}
	return nil
}

// splitGlobs expands comma-separated glob arguments into individual
// patterns, so "-e *.nfo,*.jpg" and "-e *.nfo -e *.jpg" behave the same.
func splitGlobs(raw []string) []string {
	var out []string
	for _, r := range raw {
		out = append(out, strings.Split(r, ",")...)
	}
	return out
}

// runDryRun scans the target and reports the build plan without hashing,
// per SPEC_FULL.md's supplemented dry-run mode (original_source/builder.rs).
func runDryRun(opts torrent.CreateOptions) error {
	scanResult, err := scanner.Scan(opts.Path, scanner.Options{
		Name:    opts.Name,
		Exclude: opts.Exclude,
		Include: opts.Include,
	})
	if err != nil {
		return fmt.Errorf("error scanning target: %w", err)
	}

	plan, err := piece.Calculate(scanResult.TotalSize, piece.Options{
		Exp:          opts.PieceLengthExp,
		MaxExp:       opts.MaxPieceLength,
		PiecesTarget: opts.PiecesTarget,
		TrackerURL:   opts.TrackerURL,
		Mode:         opts.Mode,
	})
	if err != nil {
		return fmt.Errorf("error computing piece length: %w", err)
	}

	fmt.Printf("Name:         %s\n", scanResult.Name)
	fmt.Printf("Files:        %d\n", len(scanResult.Files))
	fmt.Printf("Total size:   %s\n", torrent.FormatBytes(scanResult.TotalSize))
	fmt.Printf("Piece length: %s\n", torrent.FormatPieceSize(plan.Exp))
	fmt.Printf("Piece count:  %d\n", plan.Count)
	fmt.Printf("Mode:         %v\n", opts.Mode)
	return nil
}

// applyPreset loads the named preset and merges it under any explicit
// CLI flags the user changed, following the teacher's "CLI flags win"
// override order.
func applyPreset(cmd *cobra.Command, opts *torrent.CreateOptions) error {
	presetPath, err := preset.FindPresetFile(createOpts.presetFile)
	if err != nil {
		return fmt.Errorf("could not find preset file: %w", err)
	}
	presets, err := preset.Load(presetPath)
	if err != nil {
		return fmt.Errorf("could not load presets: %w", err)
	}
	p, err := presets.GetPreset(createOpts.presetName)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("announce") && len(p.Trackers) > 0 {
		opts.TrackerURL = p.Trackers[0]
		opts.Trackers = p.Trackers
	}
	if !cmd.Flags().Changed("web-seed") && len(p.WebSeeds) > 0 {
		opts.WebSeeds = p.WebSeeds
	}
	if !cmd.Flags().Changed("private") {
		opts.Private = p.Private
	}
	if !cmd.Flags().Changed("comment") && p.Comment != "" {
		opts.Comment = p.Comment
	}
	if !cmd.Flags().Changed("source") && p.Source != "" {
		opts.Source = p.Source
	}
	if !cmd.Flags().Changed("no-date") {
		opts.NoDate = p.NoDate
	}
	if !cmd.Flags().Changed("piece-length") && p.PieceLengthExp != 0 {
		exp := p.PieceLengthExp
		opts.PieceLengthExp = &exp
	}
	if !cmd.Flags().Changed("piece-length") && p.MaxPieceLength != 0 {
		maxExp := p.MaxPieceLength
		opts.MaxPieceLength = &maxExp
	}
	return nil
}
