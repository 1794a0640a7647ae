package usecase

import (
	"context"

	"youtube-unlister/domain/model"
	"youtube-unlister/domain/repository"
	"youtube-unlister/infrastructure/logger"
)

// IUnlistUsecase finds the account's private videos and makes them unlisted
type IUnlistUsecase interface {
	UnlistPrivateVideos(ctx context.Context) (*model.UnlistResult, error)
}

// UnlistUsecase implements the remediation loop
type UnlistUsecase struct {
	youtubeRepo repository.IYouTube
	dryRun      bool
}

// NewUnlistUsecase creates a new remediation use case instance
func NewUnlistUsecase(youtubeRepo repository.IYouTube) *UnlistUsecase {
	return &UnlistUsecase{youtubeRepo: youtubeRepo}
}

// WithDryRun makes the loop report private videos without updating them (fluent)
func (u *UnlistUsecase) WithDryRun(dryRun bool) *UnlistUsecase {
	u.dryRun = dryRun
	return u
}

// UnlistPrivateVideos pages through the account's videos and updates every
// private one to unlisted with both kids flags cleared. Pages and updates run
// strictly one after another. The first failing call aborts the run; the
// returned result then holds the progress made so far. Paging ends only when
// a page comes back without a next page token.
func (u *UnlistUsecase) UnlistPrivateVideos(ctx context.Context) (*model.UnlistResult, error) {
	result := &model.UnlistResult{DryRun: u.dryRun}
	logger.GetLogger().WithField("dryRun", u.dryRun).Info("Starting video update process")

	pageToken := ""
	for {
		page, err := u.youtubeRepo.ListMyVideos(ctx, pageToken)
		if err != nil {
			return result, err
		}
		result.Pages++
		logger.GetLogger().WithFields(map[string]interface{}{
			"page":   result.Pages,
			"videos": len(page.VideoIDs),
		}).Info("Found videos in this batch")

		if len(page.VideoIDs) > 0 {
			if err := u.unlistPage(ctx, page.VideoIDs, result); err != nil {
				return result, err
			}
		}

		if !page.HasNext() {
			return result, nil
		}
		pageToken = page.NextPageToken
	}
}

func (u *UnlistUsecase) unlistPage(ctx context.Context, videoIDs []string, result *model.UnlistResult) error {
	statuses, err := u.youtubeRepo.GetVideoStatuses(ctx, videoIDs)
	if err != nil {
		return err
	}
	result.Inspected += len(statuses)

	for _, status := range statuses {
		if !status.IsPrivate() {
			continue
		}
		if u.dryRun {
			logger.GetLogger().WithField("videoId", status.ID).Info("Would update private video (dry run)")
			result.Updated++
			continue
		}
		logger.GetLogger().WithField("videoId", status.ID).Info("Updating video")
		if err := u.youtubeRepo.UpdateVideoStatus(ctx, model.UnlistedStatus(status.ID)); err != nil {
			return err
		}
		result.Updated++
	}
	return nil
}
