package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd writes the department table to an XML file.
var exportCmd = &cobra.Command{
	Use:   "export <file.xml>",
	Short: "Export the department table to an XML file",
	Long: `Export every row of the department table to an XML snapshot file.

An existing file is only overwritten after confirmation.

Examples:
  # Export with an overwrite prompt
  datasync export departments.xml

  # Overwrite without asking
  datasync export departments.xml --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm prompts (non-interactive)")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rows, err := a.service().Export(ctx, args[0])
	if err != nil {
		return err
	}

	a.logger.Info("Export finished", zap.String("file", args[0]), zap.Int("rows", rows))
	return nil
}
