package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   string
	buildTime string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("torrite version: %s\n", version)
		if buildTime != "unknown" {
			fmt.Printf("Build Time:    %s\n", buildTime)
		}
		if v, err := semver.Parse(version); err == nil && len(v.Pre) > 0 {
			fmt.Println("Pre-release:   yes")
		}
	},
	DisableFlagsInUseLine: true,
}

func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

func init() {
	versionCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}}

Prints the version and build time information for torrite.
`)
}
