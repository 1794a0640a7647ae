package repository

import (
	"context"

	"youtube-unlister/domain/model"
)

// IYouTube defines the YouTube operations the remediation loop relies on
type IYouTube interface {
	// ListMyVideos returns one page (up to 50) of the authenticated account's videos.
	// An empty pageToken requests the first page.
	ListMyVideos(ctx context.Context, pageToken string) (*model.VideoPage, error)
	// GetVideoStatuses fetches id and status for all given videos in one call.
	GetVideoStatuses(ctx context.Context, videoIDs []string) ([]model.VideoStatus, error)
	// UpdateVideoStatus overwrites the status block of a single video.
	UpdateVideoStatus(ctx context.Context, status model.VideoStatus) error
}
