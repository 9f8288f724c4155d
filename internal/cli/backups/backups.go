package backups

import (
	"fmt"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the database now."`
	List    BackupListCmd    `cmd:"" help:"List backups, newest first." default:"1"`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", info.Name)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping the most recent %d):\n\n", len(list), constants.MaxBackups)
	for _, b := range list {
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name, float64(b.Size)/1024)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Path or file name of the backup to restore."`
	Yes    bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	path, err := mgr.Resolve(c.Backup)
	if err != nil {
		return err
	}

	ctx.Println("⚠ This replaces your current database with the backup.")
	ctx.Println("  Close any other steady windows first. A copy of the current database is kept.")
	ok, err := ctx.AskConfirm(fmt.Sprintf("Restore from %s?", path), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Restore cancelled.")
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Println("✓ Database restored.")
	if safety.Name != "" {
		ctx.Printf("  Your previous data was saved as %s\n", safety.Name)
	}
	return nil
}
