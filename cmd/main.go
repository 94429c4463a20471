// Package main provides the CLI entrypoint for the domain intelligence service.
// It wires subcommands (enrich, verify, credits, serve), loads configuration,
// and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"domainintel/internal/config"
	"domainintel/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "domainintel",
		Short:         "Enriches and scores domains with registration, technology and contact data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// the config is needed to build the subcommands, before cobra parses
	// anything; the flag is declared so cobra accepts it.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	flags := flag.NewFlagSet("domainintel", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("c", "config.yml", "The config file path")
	_ = flags.Parse(configArgs(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		enrichCommand(cfg),
		verifyCommand(cfg),
		creditsCommand(cfg),
		serveCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		logger.Error(ctx, "command failed", zap.Error(err))
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs extracts the config flag from args so the standard flag package
// can read it before cobra parses the rest.
func configArgs(args []string) []string {
	for i, arg := range args {
		switch arg {
		case "-c", "--c", "-config", "--config":
			if i+1 < len(args) {
				return []string{"-c", args[i+1]}
			}
		}
		for _, prefix := range []string{"-c=", "--c=", "-config=", "--config="} {
			if path, ok := strings.CutPrefix(arg, prefix); ok {
				return []string{"-c", path}
			}
		}
	}

	return nil
}
