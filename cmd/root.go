package cmd

import (
	"errors"
	"fmt"
	"os"

	"datasync/core/logger"
	"datasync/core/reconcile"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var errNoCommand = errors.New("a command is required")

// runLogger is the run_id tagged logger of the current invocation, set once
// configuration has loaded.
var runLogger *zap.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "datasync",
	Short: "Department table synchronisation tool",
	Long: `datasync keeps the department table in step with XML snapshot files.

It exports the table to a file, or syncs the table so that it matches a file
by deleting, updating and inserting rows in a single transaction.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		return errNoCommand
	},
}

// Execute runs the root command against the process arguments and exits with
// the resulting status.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run executes one invocation and returns its exit status. Declined prompts
// and runs with nothing to change exit with status 0; every other error exits
// with status 1.
func run(args []string) int {
	runLogger = nil
	resetFlags(RootCmd)
	if args == nil {
		args = []string{}
	}
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	if err != nil {
		report(err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil || reconcile.IsCleanExit(err) {
		return 0
	}
	return 1
}

// report logs the outcome of a failed run through the run logger, so the
// entry carries the run_id and reaches the log file. Failures before the
// config is loaded go to a plain console logger.
func report(err error) {
	l := runLogger
	if l == nil {
		var logErr error
		l, logErr = logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
	}
	defer func() { _ = l.Sync() }()

	if reconcile.IsCleanExit(err) {
		l.Info(err.Error())
		return
	}

	fields := []zap.Field{zap.Error(err)}
	var se *reconcile.StageError
	if errors.As(err, &se) {
		fields = append(fields, zap.String("stage", se.Stage))
	}
	l.Error("command failed", fields...)
}

// resetFlags restores every flag to its default. Cobra keeps parsed values on
// the command tree between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "Directory holding .env and datasync.yaml")
}
