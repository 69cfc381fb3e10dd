package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yurifrl/budgetu/pkg/config"
	"github.com/yurifrl/budgetu/pkg/server"
	"github.com/yurifrl/budgetu/pkg/service"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "budgetu-server",
	Short:        "Upload a budget dataset and download its reports",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := cfg.Logger("budgetu-server")

		srv := server.New(service.NewProcessor(cfg.Service(), logger), logger)
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)
		logger.Info("starting server", "addr", addr)
		return srv.Start(addr)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is budgetu.yaml)")
	rootCmd.Flags().String("port", "3000", "Server port")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
