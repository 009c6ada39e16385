package cmd

import (
	"context"

	"datasync/core/reconcile"
	"datasync/feature/department"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var createBucket bool

// checkCmd verifies connectivity and schema without touching any data.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database, table schema and archive bucket",
	Long: `Connect to the database, verify that the department table has the
expected columns and, when archiving is enabled, that the bucket exists.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&createBucket, "create-bucket", false, "Create the archive bucket when it is missing")
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("Database connection OK", zap.String("driver", a.cfg.Database.Driver))

	if err := a.store.VerifySchema(ctx); err != nil {
		return reconcile.Stage(department.StageFetchStore, err)
	}
	a.logger.Info("Table schema OK", zap.String("table", a.cfg.Table.Name))

	if a.archiver == nil {
		a.logger.Info("Archiving disabled, skipping bucket check")
		return nil
	}

	if createBucket {
		created, err := a.archiver.EnsureBucket(ctx, minio.MakeBucketOptions{Region: a.cfg.Storage.Region})
		if err != nil {
			return err
		}
		if created {
			a.logger.Info("Created archive bucket", zap.String("bucket", a.cfg.Storage.Bucket))
		}
	}

	if err := a.archiver.Check(ctx); err != nil {
		return err
	}
	a.logger.Info("Archive bucket OK", zap.String("bucket", a.cfg.Storage.Bucket))
	return nil
}
