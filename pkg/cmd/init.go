package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	peerconf "github.com/tetrisp2p/peerlist/pkg/config"
)

// InitCmd returns a command that writes a peerlist.yaml with the effective
// configuration into the home directory.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: fmt.Sprintf("Initialize a new %s file", peerconf.ConfigName),
		Long: fmt.Sprintf(`This command writes a %s file to the home directory (or current directory if not specified).
Defaults can be overridden with the same flags the peer commands accept.`, peerconf.ConfigName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			homePath, err := cmd.Flags().GetString(peerconf.FlagRootDir)
			if err != nil {
				return fmt.Errorf("error reading home flag: %w", err)
			}
			if homePath == "" {
				return fmt.Errorf("home path is required")
			}

			config, err := ParseConfig(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(config.ConfigPath()); err == nil {
				return fmt.Errorf("%s file already exists in the specified directory", peerconf.ConfigName)
			}

			if err := config.SaveAsYaml(); err != nil {
				return fmt.Errorf("error writing %s file: %w", peerconf.ConfigName, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s file in %s\n", peerconf.ConfigName, homePath)
			return err
		},
	}
	peerconf.AddFlags(cmd)
	return cmd
}
