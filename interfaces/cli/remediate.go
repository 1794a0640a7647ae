package cli

import (
	"context"

	youtubeclient "youtube-unlister/infrastructure/clients/youtube"
	"youtube-unlister/infrastructure/configuration"
	"youtube-unlister/infrastructure/logger"
	"youtube-unlister/usecase"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// NewOAuthConfig builds the OAuth2 client registration from configuration.
func NewOAuthConfig(c *configuration.Config) *oauth2.Config {
	return youtubeclient.NewOAuthConfig(&youtubeclient.Config{
		ClientID:     c.YouTube.ClientID,
		ClientSecret: c.YouTube.ClientSecret,
		RedirectURL:  c.YouTube.RedirectURI,
		Scopes:       c.YouTube.Scopes,
	})
}

// Remediate authorises a YouTube client with token, runs the unlisting loop
// and returns the exit status the process should end with.
func Remediate(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, dryRun bool, opts ...option.ClientOption) int {
	client, err := youtubeclient.NewYouTubeClient(ctx, oauthConfig, token, opts...)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error creating YouTube client")
		return ExitFailure
	}
	return Run(ctx, usecase.NewUnlistUsecase(client).WithDryRun(dryRun))
}

// Run executes the use case and reports its outcome.
func Run(ctx context.Context, uc usecase.IUnlistUsecase) int {
	result, err := uc.UnlistPrivateVideos(ctx)
	if err != nil {
		entry := logger.GetLogger().WithField("error", err)
		if result != nil {
			entry = entry.WithField("updatedBeforeError", result.Updated)
		}
		entry.Error("Error updating videos")
		return ExitFailure
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"pages":     result.Pages,
		"inspected": result.Inspected,
		"updated":   result.Updated,
		"dryRun":    result.DryRun,
	}).Infof("Done! Updated %d private video(s).", result.Updated)
	return ExitOK
}
