package main

import (
	"github.com/spf13/cobra"

	"github.com/toolbench/toolbench/internal/tui"
)

func newReadCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [slug]",
		Short: "Read the blog in the terminal",
		Long:  `Opens the blog in a terminal reader, starting at the given post or the newest one.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			posts := store.Posts()
			start := 0
			if len(args) == 1 {
				post, err := store.Post(args[0])
				if err != nil {
					return err
				}
				for i, p := range posts {
					if p == post {
						start = i
					}
				}
			}
			return tui.Run(posts, start, a.cfg.Widgets.Progress())
		},
	}

	return cmd
}
