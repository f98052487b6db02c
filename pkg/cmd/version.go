package cmd

import (
	"errors"
	"fmt"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	// GitSHA is set at build time
	GitSHA string

	// Version is set at build time
	Version string
)

// unknown is printed for build details neither ldflags nor the binary carry.
const unknown = "unknown"

// buildInfo is replaced in tests.
var buildInfo = debug.ReadBuildInfo

// versionInfo returns the ldflags values, falling back to the module
// version and VCS revision recorded by the go tool.
func versionInfo() (version, sha string) {
	version, sha = Version, GitSHA
	if version != "" && sha != "" {
		return version, sha
	}

	if info, ok := buildInfo(); ok {
		if version == "" && info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			if sha == "" && s.Key == "vcs.revision" {
				sha = s.Value
			}
		}
	}

	if version == "" {
		version = unknown
	}
	if sha == "" {
		sha = unknown
	}
	return version, sha
}

// VersionCmd is the command to show version info for the peerlist CLI
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, sha := versionInfo()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 2, ' ', 0)
		_, err1 := fmt.Fprintf(w, "peerlist version:\t%s\n", version)
		_, err2 := fmt.Fprintf(w, "peerlist git sha:\t%s\n", sha)
		return errors.Join(err1, err2, w.Flush())
	},
}
