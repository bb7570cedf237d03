package commands

import (
	"fmt"

	"sitevault/internal/cli"
	"sitevault/internal/fsio"
)

// TargetsCommand lists the site files the store knows about.
type TargetsCommand struct{}

func (c *TargetsCommand) Name() string        { return "targets" }
func (c *TargetsCommand) Usage() string       { return "targets" }
func (c *TargetsCommand) Description() string { return "List registered site files" }
func (c *TargetsCommand) DetailedDescription() string {
	return `List every logical target name with its live path and whether the
live file currently exists.`
}
func (c *TargetsCommand) Aliases() []string { return nil }

func (c *TargetsCommand) Run(ctx *cli.Context) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	for _, name := range st.Targets.Names() {
		t, _ := st.Targets.Lookup(name)
		mark := " "
		if fsio.Exists(t.LivePath) {
			mark = "*"
		}
		fmt.Printf("%s %-18s %s\n", mark, t.Name, t.LivePath)
	}
	return nil
}

func init() {
	cli.RegisterCommand(&TargetsCommand{})
}
