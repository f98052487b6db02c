package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	peerconf "github.com/tetrisp2p/peerlist/pkg/config"
	"github.com/tetrisp2p/peerlist/pkg/peerlist"
)

const (
	flagOutput = "output"
	flagCheck  = "check"
)

// NothingToRemove is printed by remove when the address is not listed.
const NothingToRemove = "Nothing to remove"

// AddCmd returns a command that adds a peer address to the list.
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <address>",
		Short: "Add a peer address to the peer list",
		Long: `Adds the address to the peer list unless it is already present.
Anything from the first ';' on is dropped, so "10.0.0.1;transport=udp" is stored as "10.0.0.1".
The stored address is printed on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, s peerlist.Store) error {
				res, err := s.Add(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Address)
				return err
			})
		},
	}
	peerconf.AddFlags(cmd)
	return cmd
}

// RemoveCmd returns a command that removes a peer address from the list.
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <address>",
		Short: "Remove a peer address from the peer list",
		Long: `Removes every entry equal to the address from the peer list.
The address is normalized the same way as for add. Removing an address that is not listed is not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, s peerlist.Store) error {
				res, err := s.Remove(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !res.Removed {
					_, err = fmt.Fprintln(out, NothingToRemove)
					return err
				}
				_, err = fmt.Fprintf(out, "%s removed from peers list\n", res.Address)
				return err
			})
		},
	}
	peerconf.AddFlags(cmd)
	return cmd
}

// ListCmd returns a command that prints the peer list.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the peer list",
		Long: `Prints every listed peer address, one per line, in the order they were added.
With --check, prints true or false depending on whether the given address is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cmd.Flags().GetString(flagOutput)
			if err != nil {
				return fmt.Errorf("error reading output flag: %w", err)
			}
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q, expected text or json", output)
			}
			check, err := cmd.Flags().GetString(flagCheck)
			if err != nil {
				return fmt.Errorf("error reading check flag: %w", err)
			}

			return withStore(cmd, func(ctx context.Context, s peerlist.Store) error {
				out := cmd.OutOrStdout()

				if check != "" {
					ok, err := s.Has(ctx, check)
					if err != nil {
						return err
					}
					if output == "json" {
						return json.NewEncoder(out).Encode(ok)
					}
					_, err = fmt.Fprintln(out, ok)
					return err
				}

				addrs, err := s.List(ctx)
				if err != nil {
					return err
				}
				if output == "json" {
					if addrs == nil {
						addrs = []string{}
					}
					return json.NewEncoder(out).Encode(addrs)
				}
				for _, a := range addrs {
					if _, err := fmt.Fprintln(out, a); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	peerconf.AddFlags(cmd)
	cmd.Flags().StringP(flagOutput, "o", "text", "output format (text, json)")
	cmd.Flags().String(flagCheck, "", "only report whether this address is listed")
	return cmd
}

// ClearCmd returns a command that empties the peer list.
func ClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every address from the peer list (cannot be undone)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, s peerlist.Store) error {
				n, err := s.Clear(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d peers removed from peers list\n", n)
				return err
			})
		},
	}
	peerconf.AddFlags(cmd)
	return cmd
}
