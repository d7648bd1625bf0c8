package cmd

import (
	"github.com/spf13/cobra"
)

const banner = `___________                  .__  __
\__    ___/___________________|__|/  |_  ____
  |    | /  _ \_  __ \_  __ \  \   __\/ __ \
  |    |(  <_> )  | \/|  | \/  ||  | \  ___/
  |____| \____/|__|  |__|  |__||__|  \___  >
                                          \/  `

var rootCmd = &cobra.Command{
	Use:   "torrite",
	Short: "A tool to create, inspect, verify, and modify torrent files",
	Long:  banner + "\n\ntorrite creates mktorrent-compatible v1, v2, and hybrid torrent files.",
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(versionCmd)
}

const commonUsageTemplate = `Usage:
  {{.CommandPath}} [command]

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`

// setupCommon prepares the rootCmd with common settings.
func setupCommon() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = false
	rootCmd.SetUsageTemplate(commonUsageTemplate)
}

// ExecuteCLI configures and executes the root command.
func ExecuteCLI() error {
	setupCommon()
	return rootCmd.Execute()
}
