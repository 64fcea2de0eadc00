package main

import (
	"fmt"
	"time"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newReflogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reflog [ref]",
		Short: "Show recorded updates for a ref",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			ref := "refs/heads/main"
			if len(args) == 1 {
				ref = args[0]
			} else if head, err := r.Head(); err == nil && !head.Detached() {
				ref = "refs/heads/" + head.Branch
			}

			entries, err := r.Reflog(ref)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			// Newest first, matching log output.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				when := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(out, "%s %s %s: %s\n", shortHash(string(e.NewHash)), when, ref, e.Reason)
			}
			return nil
		},
	}
}
