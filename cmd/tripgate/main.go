package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zen-systems/tripgate/pkg/config"
	"github.com/zen-systems/tripgate/pkg/observability"
)

var (
	configFile string
	logger     = zerolog.Nop()
)

// errNeedsCorrection marks a run whose output is a validation message.
var errNeedsCorrection = errors.New("trip details need correction")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNeedsCorrection) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tripgate",
		Short: "Travel request extraction and itinerary planning",
		Long: `Tripgate reads a free-text travel request, extracts the trip details,
	compiles them into an itinerary directive for a generation service and
	re-parses the reply into a structured itinerary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ~/.tripgate/config.yaml)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(modelsCmd())

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger = observability.NewLogger(cfg.AppEnv)
	return cfg, nil
}

// readInput joins args, or reads stdin when there are none.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
