package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"KisanGPT/app/configs"
	"KisanGPT/app/runtime"
)

var (
	version    = "dev"
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "kisangpt",
	Short:         "Agricultural question answering over advisory documents",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultPath := os.Getenv("KISAN_CONFIG")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the YAML config file (env KISAN_CONFIG)")
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig() (*configs.Config, error) {
	return configs.LoadConfig(configPath)
}

func loadApp() (*runtime.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return runtime.New(cfg)
}
