package commands

import (
	"fmt"
	"strings"

	"sitevault/internal/cli"
	"sitevault/internal/store/capture"
	"sitevault/internal/store/snapshot"
	"sitevault/internal/util"
)

// CaptureCommand creates a new snapshot of the site files.
type CaptureCommand struct{}

func (c *CaptureCommand) Name() string { return "capture" }
func (c *CaptureCommand) Usage() string {
	return "capture [-kind full|changed|selected] [-label <tag>] [-auto] [file...]"
}
func (c *CaptureCommand) Description() string {
	return "Back up site files into a new snapshot"
}
func (c *CaptureCommand) DetailedDescription() string {
	return `Create a snapshot of the site content files.

Usage:
  capture                         - full backup of all existing targets
  capture -kind changed           - back up only files that differ from the last snapshot
  capture -kind selected f1 f2    - back up an explicit list of files
  capture -label release-3        - tag the snapshot with a version label
  capture -auto                   - auto-number the label (v1, v2, ...)`
}
func (c *CaptureCommand) Aliases() []string { return []string{"backup", "cap"} }

func (c *CaptureCommand) Run(ctx *cli.Context) error {
	req := capture.Request{Kind: snapshot.KindFull}

	for i := 0; i < len(ctx.Args); i++ {
		arg := ctx.Args[i]
		switch {
		case arg == "-kind" && i+1 < len(ctx.Args):
			kind, err := parseKind(ctx.Args[i+1])
			if err != nil {
				return err
			}
			req.Kind = kind
			i++
		case strings.HasPrefix(arg, "-kind="):
			kind, err := parseKind(strings.TrimPrefix(arg, "-kind="))
			if err != nil {
				return err
			}
			req.Kind = kind
		case arg == "-label" && i+1 < len(ctx.Args):
			req.Label = ctx.Args[i+1]
			i++
		case strings.HasPrefix(arg, "-label="):
			req.Label = strings.TrimPrefix(arg, "-label=")
		case arg == "-auto":
			req.AutoLabel = true
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag %q", arg)
		default:
			req.Selection = append(req.Selection, arg)
		}
	}

	if req.Kind == snapshot.KindSelected && len(req.Selection) == 0 {
		return fmt.Errorf("selected capture needs at least one file name")
	}
	if req.Kind != snapshot.KindSelected && len(req.Selection) > 0 {
		return fmt.Errorf("file arguments are only valid with -kind selected")
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}

	return withLock(st, func() error {
		res, err := st.Capture.Capture(req)
		if err != nil {
			return err
		}
		if res.NoChanges {
			fmt.Println("No changes since last backup.")
			return nil
		}
		s := res.Snapshot
		fmt.Printf("Created %s snapshot %s (%d files, %s)\n",
			s.Kind, s.Ref(), len(s.Files), util.HumanSize(s.SizeBytes()))
		return nil
	})
}

func parseKind(s string) (snapshot.Kind, error) {
	switch s {
	case "full":
		return snapshot.KindFull, nil
	case "changed":
		return snapshot.KindChanged, nil
	case "selected":
		return snapshot.KindSelected, nil
	default:
		return snapshot.KindUnknown, fmt.Errorf("unknown capture kind %q (want full, changed or selected)", s)
	}
}

func init() {
	cli.RegisterCommand(&CaptureCommand{})
}
