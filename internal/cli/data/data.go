package data

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/export"
)

type ExportCmd struct {
	Path   string `arg:"" optional:"" help:"File to write. Omit or use - for standard output."`
	Format string `help:"Output format: json or yaml. Defaults to the file extension." enum:",json,yaml,yml" default:""`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	dump, err := export.Collect(ctx.Store, ctx.Clock()())
	if err != nil {
		return err
	}
	format, err := pickFormat(c.Format, c.Path)
	if err != nil {
		return err
	}

	if c.Path == "" || c.Path == "-" {
		return export.Write(ctx.Output(), dump, format)
	}

	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, dump, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	ctx.Printf("✓ Exported %d check-ins, %d habits and %d journal entries to %s\n",
		len(dump.Moods), len(dump.Habits), len(dump.Reframes)+len(dump.Worries)+len(dump.Wins), c.Path)
	return nil
}

type ImportCmd struct {
	Path   string `arg:"" help:"File to read, or - for standard input." type:"path"`
	Format string `help:"Input format: json or yaml. Defaults to the file extension." enum:",json,yaml,yml" default:""`
	Yes    bool   `help:"Skip the confirmation prompt." short:"y"`

	stdin io.Reader
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	format, err := pickFormat(c.Format, c.Path)
	if err != nil {
		return err
	}

	var r io.Reader
	if c.Path == "-" {
		r = c.stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(c.Path)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dump, err := export.Read(r, format)
	if err != nil {
		return err
	}

	ok, err := ctx.AskConfirm(fmt.Sprintf("Import %d check-ins and %d habits? Records with the same ID are overwritten.",
		len(dump.Moods), len(dump.Habits)), c.Yes)
	if err != nil || !ok {
		return err
	}

	ctx.PerformAutomaticBackup()
	counts, err := export.Import(ctx.Store, dump)
	if err != nil {
		return fmt.Errorf("import stopped after %d records: %w", counts.Total(), err)
	}
	ctx.Printf("✓ Imported %d records (%d check-ins, %d habits, %d habit days, %d journal entries, %d contacts)\n",
		counts.Total(), counts.Moods, counts.Habits, counts.Ticks,
		counts.Reframes+counts.Worries+counts.Wins, counts.Contacts)
	return nil
}

func pickFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.FormatFromPath(path), nil
}
