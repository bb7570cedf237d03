package commands

import (
	"fmt"
	"strconv"
	"strings"

	"sitevault/internal/cli"
)

// PurgeCommand deletes snapshots older than the retention cutoff.
type PurgeCommand struct{}

func (c *PurgeCommand) Name() string  { return "purge" }
func (c *PurgeCommand) Usage() string { return "purge [-days <n>]" }
func (c *PurgeCommand) Description() string {
	return "Delete snapshot days older than the retention cutoff"
}
func (c *PurgeCommand) DetailedDescription() string {
	return `Delete every date directory older than the given number of days.
Defaults to the retention_days config value. Safe to run repeatedly.`
}
func (c *PurgeCommand) Aliases() []string { return []string{"prune"} }

func (c *PurgeCommand) Run(ctx *cli.Context) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}

	days := cfg.RetentionDays
	for i := 0; i < len(ctx.Args); i++ {
		arg := ctx.Args[i]
		switch {
		case arg == "-days" && i+1 < len(ctx.Args):
			days, err = strconv.Atoi(ctx.Args[i+1])
			i++
		case strings.HasPrefix(arg, "-days="):
			days, err = strconv.Atoi(strings.TrimPrefix(arg, "-days="))
		case arg == "-days":
			return fmt.Errorf("-days requires a value")
		default:
			return fmt.Errorf("unknown argument %q", arg)
		}
		if err != nil {
			return fmt.Errorf("invalid -days value: %w", err)
		}
	}

	return withLock(st, func() error {
		removed, err := st.Sweep.PurgeOlderThan(days)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d day(s) of snapshots older than %d days.\n", removed, days)
		return nil
	})
}

func init() {
	cli.RegisterCommand(&PurgeCommand{})
}
