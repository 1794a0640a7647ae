// Command unlist-refresh-token unlists every private video of the account
// whose refresh token is given in REFRESH_TOKEN, without any consent flow.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"youtube-unlister/infrastructure/configuration"
	"youtube-unlister/infrastructure/logger"
	"youtube-unlister/interfaces/cli"

	"github.com/spf13/pflag"
	"golang.org/x/oauth2"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configuration.RegisterDryRunFlag(flags)
	_ = flags.Parse(os.Args[1:])

	if err := configuration.LoadConfig(flags); err != nil {
		logger.GetLogger().WithField("error", err).Error("Configuration could not be loaded")
		return cli.ExitFailure
	}
	cfg := &configuration.C
	if err := cfg.ValidateRefreshToken(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid configuration")
		return cli.ExitFailure
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	token := &oauth2.Token{RefreshToken: cfg.YouTube.RefreshToken}
	return cli.Remediate(ctx, cli.NewOAuthConfig(cfg), token, cfg.Unlist.DryRun)
}
