package main

import (
	"fmt"
	"os"

	"github.com/sitecraft/internal/config"
	"github.com/sitecraft/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliOptions 保存全局参数
type cliOptions struct {
	configPath string
	logMode    string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "sitecraft",
		Short: "Sitecraft website builder server",
		Long: `Sitecraft serves the website editor API and the published sites.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults to $"+config.ConfigFileEnv+")")
	root.PersistentFlags().StringVar(&opts.logMode, "log-mode", "", "override log mode: production, development or silent")

	root.AddCommand(newServeCmd(opts), newCreateUserCmd(opts), newMigrateCmd(opts))
	return root
}

// load 读取配置并构建 logger，命令行参数优先。
func (o *cliOptions) load() (config.AppConfig, *zap.Logger, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv(config.ConfigFileEnv)
	}
	cfg, err := config.LoadPath(path)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	if o.logMode != "" {
		cfg.LogMode = o.logMode
	}
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
