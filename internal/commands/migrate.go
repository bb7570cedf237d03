package commands

import (
	"fmt"

	"sitevault/internal/cli"
)

// MigrateCommand folds legacy flat backup files into the dated layout.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string  { return "migrate" }
func (c *MigrateCommand) Usage() string { return "migrate" }
func (c *MigrateCommand) Description() string {
	return "Reorganize legacy flat backups into the dated layout"
}
func (c *MigrateCommand) DetailedDescription() string {
	return `Move backup files from the old flat naming
(<type>_<date>_<time>.html) into <date>/<time>/<type>.html.
Duplicates of an earlier run are deleted. Idempotent.`
}
func (c *MigrateCommand) Aliases() []string { return nil }

func (c *MigrateCommand) Run(ctx *cli.Context) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	return withLock(st, func() error {
		moved, err := st.Migrate.FlatLayout()
		if err != nil {
			return err
		}
		fmt.Printf("Reorganized %d legacy backup file(s).\n", moved)
		return nil
	})
}

func init() {
	cli.RegisterCommand(&MigrateCommand{})
}
