package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sperrmuell/config"
	"sperrmuell/utils"
)

var envFile string

// rootCmd runs the full pipeline when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sperrmuell",
	Short: "Builds per-date bulky-waste collection maps from a municipal schedule.",
	Long: `sperrmuell reads a municipal waste-collection schedule and an OpenStreetMap
extract, finds every bulky-waste ("Sperrmüll") collection date and writes,
per date, the address ranges, the located addresses and a map into a
YYYY-MM-DD folder. Dates that already have a complete folder are skipped.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runPipeline,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", "", "settings file (default is ./.env)")
	flags.StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error")
	flags.StringP("output", "o", "", "output directory (default is the schedule year)")
	flags.StringP("strategy", "s", "", "coordinate lookup: local or nominatim")

	viper.BindPFlag("log_level", flags.Lookup("loglevel"))
	viper.BindPFlag("output_dir", flags.Lookup("output"))
	viper.BindPFlag("strategy", flags.Lookup("strategy"))
}

// setup loads the configuration and a logger at the configured level.
func setup() (*config.Config, *utils.Logger, error) {
	cfg, err := config.Load(viper.GetViper(), envFile)
	if err != nil {
		return nil, nil, err
	}
	logger := utils.NewLogger()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
