package cmd

import (
	"context"

	"datasync/feature/department"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd makes the department table match an XML file.
var syncCmd = &cobra.Command{
	Use:   "sync <file.xml>",
	Short: "Sync the department table from an XML file",
	Long: `Make the department table match an XML snapshot file.

Rows missing from the file are deleted, rows with a different description are
updated and new rows are inserted, all in one transaction. An empty file
deletes every row, which needs confirmation.

Examples:
  # Show what would change
  datasync sync departments.xml --dry-run

  # Apply, confirming prompts automatically
  datasync sync departments.xml --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Report the change set without applying it")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm prompts (non-interactive)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.service().Sync(ctx, args[0], department.SyncOptions{DryRun: dryRunSync})
	if err != nil {
		return err
	}

	a.logger.Info("Sync finished",
		zap.String("file", args[0]),
		zap.Int("applied", result.Executed),
		zap.Bool("dry_run", dryRunSync),
		zap.String("backup", result.BackupKey),
	)
	return nil
}
