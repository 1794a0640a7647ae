package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"youtube-unlister/domain/model"
	"youtube-unlister/domain/repository"
	"youtube-unlister/infrastructure/configuration"
	"youtube-unlister/infrastructure/logger"
	"youtube-unlister/infrastructure/persistence"
	"youtube-unlister/interfaces/cli"
	httpHandler "youtube-unlister/interfaces/http"
	"youtube-unlister/server"

	"github.com/spf13/pflag"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if err := recover(); err != nil {
			logger.GetLogger().WithField("error", err).Error("Application panic recovered")
			code = cli.ExitFailure
		}
	}()

	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configuration.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])
	if err := configuration.LoadConfig(flags); err != nil {
		logger.GetLogger().WithField("error", err).Error("Configuration could not be loaded")
		return cli.ExitFailure
	}
	cfg := &configuration.C
	if err := cfg.ValidateOAuthClient(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid configuration")
		return cli.ExitFailure
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tokenRepo, err := persistence.NewTokenRepository(ctx, cfg.Token.Path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Token store could not be opened")
		return cli.ExitFailure
	}
	oauthConfig := cli.NewOAuthConfig(cfg)

	app := &application{
		oauthConfig: oauthConfig,
		tokenRepo:   tokenRepo,
		port:        cfg.App.Port,
		remediate: func(ctx context.Context, token *oauth2.Token) int {
			return cli.Remediate(ctx, oauthConfig, token, cfg.Unlist.DryRun)
		},
	}
	return app.start(ctx, func() (net.Listener, error) {
		return net.Listen("tcp", fmt.Sprintf(":%d", cfg.App.Port))
	})
}

// remediateFunc runs one remediation pass and returns the process exit code.
type remediateFunc func(ctx context.Context, token *oauth2.Token) int

type application struct {
	oauthConfig *oauth2.Config
	tokenRepo   repository.ITokenRepository
	port        int
	remediate   remediateFunc
}

// start remediates straight away with a cached refresh token. Otherwise it
// opens the consent listener and waits for the callback to deliver one.
func (a *application) start(ctx context.Context, listen func() (net.Listener, error)) int {
	if cred := loadCachedCredential(ctx, a.tokenRepo); cred.HasRefreshToken() {
		logger.GetLogger().WithField("location", a.tokenRepo.Location()).Info("Using existing refresh token")
		return a.remediate(ctx, cred.Token())
	}

	listener, err := listen()
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"port":  a.port,
		}).Error("OAuth server could not listen")
		return cli.ExitFailure
	}
	return a.serveConsent(ctx, listener)
}

// loadCachedCredential returns the stored credential, or nil when there is
// none or it cannot be read.
func loadCachedCredential(ctx context.Context, tokenRepo repository.ITokenRepository) *model.Credential {
	cred, err := tokenRepo.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrTokenNotFound):
		logger.GetLogger().WithField("location", tokenRepo.Location()).Info("No cached token found")
		return nil
	case err != nil:
		logger.GetLogger().WithField("error", err).Error("Could not read tokens from store")
		return nil
	}
	if !cred.HasRefreshToken() {
		logger.GetLogger().WithField("location", tokenRepo.Location()).Info("Cached token has no refresh token")
	}
	return cred
}

// serveConsent runs the consent listener until the callback has produced a
// token and the remediation it triggers has finished.
func (a *application) serveConsent(ctx context.Context, listener net.Listener) int {
	authorized := make(chan *oauth2.Token, 1)
	handler := httpHandler.NewYouTubeAuthHandler(a.oauthConfig, a.tokenRepo, func(tok *oauth2.Token) {
		select {
		case authorized <- tok:
		default:
			logger.GetLogger().Warn("Remediation already started, ignoring additional token")
		}
	})

	httpServer := &http.Server{
		Handler:           server.InitiateRouter(handler, a.port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	exitCode := cli.ExitFailure

	g.Go(func() error {
		logger.GetLogger().WithField("addr", listener.Addr().String()).
			Infof("OAuth server is listening at http://localhost:%d", a.port)
		logger.GetLogger().Infof("Go to http://localhost:%d/authorize to begin the OAuth flow.", a.port)
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer shutdown(httpServer)
		select {
		case tok := <-authorized:
			exitCode = a.remediate(ctx, tok)
		case <-gctx.Done():
			if ctx.Err() != nil {
				logger.GetLogger().Info("Application shutdown requested")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		return cli.ExitFailure
	}
	return exitCode
}

func shutdown(httpServer *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Server shutdown did not complete cleanly")
	}
}
