package main

import (
	"errors"
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch-or-path>",
		Short: "Switch branches or restore a staged file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			target := args[0]
			out := cmd.OutOrStdout()

			// Branch name first; fall back to a staged file path.
			switchErr := r.SwitchBranch(target)
			if switchErr == nil {
				fmt.Fprintf(out, "switched to branch '%s'\n", target)
				return nil
			}
			if !errors.Is(switchErr, repo.ErrNotFound) {
				return switchErr
			}

			if err := r.RestoreFromIndex(target); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return fmt.Errorf("'%s' is neither a branch nor a staged file", target)
				}
				return err
			}
			fmt.Fprintf(out, "restored %s from index\n", target)
			return nil
		},
	}
}
