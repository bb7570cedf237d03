package commands

import (
	"fmt"
	"strings"

	"sitevault/internal/cli"
	"sitevault/internal/util"
)

// ListCommand shows all snapshots, newest first.
type ListCommand struct{}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Usage() string       { return "list [-files]" }
func (c *ListCommand) Description() string { return "List snapshots, newest first" }
func (c *ListCommand) DetailedDescription() string {
	return `List all snapshots with their date, time, label, kind and size.

Usage:
  list         - one line per snapshot
  list -files  - also show the payload file names`
}
func (c *ListCommand) Aliases() []string { return []string{"ls"} }

func (c *ListCommand) Run(ctx *cli.Context) error {
	showFiles := false
	for _, arg := range ctx.Args {
		if arg == "-files" {
			showFiles = true
		}
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}

	snapshots := st.Snapshots.List()
	if len(snapshots) == 0 {
		fmt.Println("No snapshots.")
		return nil
	}

	fmt.Printf("%-10s %-8s %-12s %-10s %5s %10s\n", "Date", "Time", "Label", "Kind", "Files", "Size")
	fmt.Println(strings.Repeat("─", 60))
	for _, s := range snapshots {
		label := s.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("%-10s %-8s %-12s %-10s %5d %10s\n",
			s.Date, s.Time, label, s.Kind, len(s.Files), util.HumanSize(s.SizeBytes()))
		if showFiles {
			for _, f := range s.Files {
				fmt.Printf("    %s\n", f)
			}
		}
	}
	return nil
}

func init() {
	cli.RegisterCommand(&ListCommand{})
}
