package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	peerconf "github.com/tetrisp2p/peerlist/pkg/config"
)

func TestRootCmdGlobalFlags(t *testing.T) {
	for _, name := range []string{peerconf.FlagRootDir, peerconf.FlagLogLevel, peerconf.FlagLogFormat} {
		assert.NotNil(t, RootCmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
}

func TestRootCmd_UsageOnlyForUsageErrors(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		wantErr   string
		wantUsage bool
	}{
		{
			name:      "missing argument",
			args:      []string{"add"},
			wantErr:   "accepts 1 arg(s), received 0",
			wantUsage: true,
		},
		{
			name:      "unknown flag",
			args:      []string{"add", "--bogus", "10.0.0.1"},
			wantErr:   "unknown flag: --bogus",
			wantUsage: true,
		},
		{
			name:    "run error",
			args:    []string{"add", "10.0.0.1"},
			wantErr: "permission denied",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := &cobra.Command{
				Use:              AppName,
				PersistentPreRun: silenceUsage,
				SilenceErrors:    true,
			}
			root.AddCommand(&cobra.Command{
				Use:  "add <address>",
				Args: cobra.ExactArgs(1),
				RunE: func(*cobra.Command, []string) error {
					return errors.New("open tetrispeerslist.txt: permission denied")
				},
			})

			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetErr(buf)
			root.SetArgs(tc.args)

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			if tc.wantUsage {
				assert.Contains(t, buf.String(), "Usage:")
			} else {
				assert.NotContains(t, buf.String(), "Usage:")
			}
		})
	}
}
