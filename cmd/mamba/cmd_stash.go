package main

import (
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newStashCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "stash",
		Short: "Save and restore workspace snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stashPush(cmd, message)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "stash message")

	push := &cobra.Command{
		Use:   "push",
		Short: "Snapshot the current workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stashPush(cmd, message)
		},
	}
	push.Flags().StringVarP(&message, "message", "m", "", "stash message")
	cmd.AddCommand(push)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stash entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			entries, err := r.ListStashes()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "stash@{%d}: %s %s\n", e.Index, shortHash(string(e.Hash)), firstLine(e.Commit.Message))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply [ref]",
		Short: "Restore the workspace from a stash entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			ref := "stash@{0}"
			if len(args) == 1 {
				ref = args[0]
			}
			if err := r.ApplyStash(ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", ref)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drop [ref]",
		Short: "Remove a stash entry (newest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			ref := "stash@{0}"
			if len(args) == 1 {
				ref = args[0]
			}
			if err := r.DropStash(ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", ref)
			return nil
		},
	})

	return cmd
}

func stashPush(cmd *cobra.Command, message string) error {
	r, err := repo.Open(".")
	if err != nil {
		return err
	}
	hash, err := r.CreateStash(message)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved workspace as %s\n", shortHash(string(hash)))
	return nil
}
