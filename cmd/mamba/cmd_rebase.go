package main

import (
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebase <branch>",
		Short: "Replay the current branch onto another branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			hash, err := r.Rebase(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rebased onto '%s' as %s\n", args[0], shortHash(string(hash)))
			return nil
		},
	}
}
