package youtube

import (
	"context"
	"fmt"
	"strings"

	"youtube-unlister/domain/model"
	"youtube-unlister/domain/repository"
	"youtube-unlister/infrastructure/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PageSize is the largest page search.list serves.
const PageSize int64 = 50

// Client represents YouTube API client
type Client struct {
	service *youtube.Service
}

// NewYouTubeClient creates a YouTube API client authorised by token. The
// token may carry only a refresh token; an access token is minted on the
// first call. Extra options are applied after the authorised HTTP client.
func NewYouTubeClient(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, opts ...option.ClientOption) (repository.IYouTube, error) {
	src := NewNotifyingTokenSource(ctx, oauthConfig, token, logRefresh)
	httpClient := oauth2.NewClient(ctx, src)

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return NewClient(service), nil
}

// NewClient wraps an already configured service.
func NewClient(service *youtube.Service) *Client {
	return &Client{service: service}
}

func logRefresh(tok *oauth2.Token) error {
	logger.GetLogger().WithField("expiry", tok.Expiry).Info("Access token refreshed")
	return nil
}

// ListMyVideos retrieves one page of videos owned by the authenticated user
func (c *Client) ListMyVideos(ctx context.Context, pageToken string) (*model.VideoPage, error) {
	call := c.service.Search.List([]string{"id"}).
		ForMine(true).
		Type("video").
		MaxResults(PageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	page := &model.VideoPage{NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.VideoIDs = append(page.VideoIDs, item.Id.VideoId)
	}
	return page, nil
}

// GetVideoStatuses retrieves id and status for every given video in one call
func (c *Client) GetVideoStatuses(ctx context.Context, videoIDs []string) ([]model.VideoStatus, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	response, err := c.service.Videos.List([]string{"id", "status"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video statuses: %w", err)
	}

	statuses := make([]model.VideoStatus, 0, len(response.Items))
	for _, video := range response.Items {
		if video.Status == nil {
			logger.GetLogger().WithField("videoId", video.Id).Warn("Video returned without status, skipping")
			continue
		}
		statuses = append(statuses, model.VideoStatus{
			ID:                      video.Id,
			PrivacyStatus:           model.PrivacyStatus(video.Status.PrivacyStatus),
			MadeForKids:             video.Status.MadeForKids,
			SelfDeclaredMadeForKids: video.Status.SelfDeclaredMadeForKids,
		})
	}
	return statuses, nil
}

// UpdateVideoStatus replaces the status part of a video. Both kids flags are
// always sent, false included; other status fields take the service defaults.
func (c *Client) UpdateVideoStatus(ctx context.Context, status model.VideoStatus) error {
	if status.ID == "" {
		return fmt.Errorf("video ID is required")
	}

	video := &youtube.Video{
		Id: status.ID,
		Status: &youtube.VideoStatus{
			PrivacyStatus:           string(status.PrivacyStatus),
			MadeForKids:             status.MadeForKids,
			SelfDeclaredMadeForKids: status.SelfDeclaredMadeForKids,
			ForceSendFields:         []string{"MadeForKids", "SelfDeclaredMadeForKids"},
		},
	}

	if _, err := c.service.Videos.Update([]string{"status"}, video).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update video %s: %w", status.ID, err)
	}
	return nil
}
