package commands

import (
	"github.com/spf13/cobra"

	peerconf "github.com/tetrisp2p/peerlist/pkg/config"
)

const (
	// AppName is the name of the application and of the command.
	AppName = "peerlist"
)

func init() {
	peerconf.AddGlobalFlags(RootCmd)
}

// silenceUsage runs once flags and arguments are valid, so only usage
// mistakes print the usage text.
func silenceUsage(cmd *cobra.Command, _ []string) {
	cmd.SilenceUsage = true
}

// RootCmd is the root command for peerlist
var RootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Peerlist maintains the set of peer addresses known to a game lobby server.",
	Long: `
Peerlist maintains a plain text list of peer addresses, one per line.
Unless --home or a peerlist.yaml says otherwise, the list is tetrispeerslist.txt in the current directory.
With the file backend, add, remove, list and clear also create tetrispeerslist.txt.lock next to
the list. It is an empty lock file, kept between runs, and safe to delete while no peerlist
command is running.
`,
	PersistentPreRun: silenceUsage,
	// main prints the error
	SilenceErrors: true,
}
