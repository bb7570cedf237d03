package commands

import (
	"fmt"

	"sitevault/internal/cli"
)

// RestoreCommand copies snapshot files back onto the live site.
type RestoreCommand struct{}

func (c *RestoreCommand) Name() string { return "restore" }
func (c *RestoreCommand) Usage() string {
	return "restore <date> <time> [file...] | restore -latest [file...]"
}
func (c *RestoreCommand) Description() string {
	return "Restore files from a snapshot over the live site"
}
func (c *RestoreCommand) DetailedDescription() string {
	return `Copy payload files from a snapshot back over the live site files.
A full safety snapshot of the current state is taken first.

Usage:
  restore 20250101 120000             - restore every file of that snapshot
  restore 20250101 120000 about.html  - restore only the named files
  restore -latest                     - restore the most recent snapshot`
}
func (c *RestoreCommand) Aliases() []string { return []string{"rollback"} }

func (c *RestoreCommand) Run(ctx *cli.Context) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	args := ctx.Args
	latest := false
	if len(args) > 0 && args[0] == "-latest" {
		latest = true
		args = args[1:]
	}

	return withLock(st, func() error {
		var restored []string
		switch {
		case latest:
			restored, err = st.Restore.Latest(st.Snapshots, args)
		case len(args) >= 2:
			s := st.Snapshots.Find(args[0], args[1])
			if s == nil {
				return fmt.Errorf("no snapshot %s/%s", args[0], args[1])
			}
			names := args[2:]
			if len(names) == 0 {
				names = s.Files
			}
			restored, err = st.Restore.Restore(s, names)
		default:
			return fmt.Errorf("usage: %s", c.Usage())
		}
		if err != nil {
			return err
		}

		if len(restored) == 0 {
			fmt.Println("Nothing restored.")
			return nil
		}
		for _, name := range restored {
			fmt.Printf("Restored %s\n", name)
		}
		return nil
	})
}

func init() {
	cli.RegisterCommand(&RestoreCommand{})
}
