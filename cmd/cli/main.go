package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/budgetu/pkg/config"
	"github.com/yurifrl/budgetu/pkg/executors"
	"github.com/yurifrl/budgetu/pkg/plan"
	"github.com/yurifrl/budgetu/pkg/service"
)

var (
	cfgFile string
	flags   mappingFlags
)

var rootCmd = &cobra.Command{
	Use:          "budgetu",
	Short:        "Budget dataset reports as spreadsheet and PDF",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <dataset>",
	Short: "Build the spreadsheet and PDF report of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		req, err := flags.request()
		if err != nil {
			return err
		}

		processor := service.NewProcessor(cfg.Service(), logger)
		res, err := processor.ProcessFile(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		if res.ParseFailures > 0 {
			logger.Warn("cells left empty", "count", res.ParseFailures)
		}

		written, err := service.WriteArtifacts(cfg.Output.Dir, res, flags.groupsCSV)
		for _, path := range written {
			fmt.Println(path)
		}
		if err != nil {
			return err
		}
		return res.Err()
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <job_file>",
	Short: "Preview the reports of a YAML job file (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s -> %s\n", args[0], p.Output(cfg.Output.Dir))
		exec := executors.New(logger, service.NewProcessor(cfg.Service(), logger), os.Stdout)
		return exec.Plan(cmd.Context(), p)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <job_file>",
	Short: "Write every report of a YAML job file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		exec := executors.New(logger, service.NewProcessor(cfg.Service(), logger), os.Stdout)
		written, err := exec.Apply(cmd.Context(), p, p.Output(cfg.Output.Dir))
		if err != nil {
			return err
		}
		fmt.Printf("\nApply complete: %d file(s) written\n", len(written))
		return nil
	},
}

// setup loads the configuration (config file + env + flag overrides) and
// builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Logger("budgetu"), nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is budgetu.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	// Flags specific to the generate subcommand
	flags.register(generateCmd)
	inspectCmd.Flags().Bool("dump", false, "Dump the decoded dataset")
	inspectCmd.Flags().Int("rows", 5, "Number of sample rows")
	planCmd.Flags().StringP("out", "o", "", "Output directory when the job file sets none")
	applyCmd.Flags().StringP("out", "o", "", "Output directory when the job file sets none")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
