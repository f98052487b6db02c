package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tetrisp2p/peerlist/cmd/peerlist/commands"
	peercmd "github.com/tetrisp2p/peerlist/pkg/cmd"
)

func main() {
	// Initiate the root command
	rootCmd := commands.RootCmd

	// Add subcommands to the root command
	rootCmd.AddCommand(
		peercmd.AddCmd(),
		peercmd.RemoveCmd(),
		peercmd.ListCmd(),
		peercmd.ClearCmd(),
		peercmd.InitCmd(),
		peercmd.VersionCmd,
	)

	// Interrupts abort a pending wait for the peer list lock
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Print to stderr and exit with error
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
