package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0969da"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
)

func newHeadingsCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "headings <slug>",
		Short: "List the table of contents of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			post, err := store.Post(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(post.Headings)
			}

			fmt.Println(titleStyle.Render(post.Title))
			if len(post.Headings) == 0 {
				fmt.Println(idStyle.Render("  no headings"))
				return nil
			}
			for _, h := range post.Headings {
				indent := strings.Repeat("  ", max(h.Level-1, 1))
				fmt.Printf("%s%s %s\n", indent, h.Text, idStyle.Render("#"+h.ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the headings as JSON")

	return cmd
}
