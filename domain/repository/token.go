package repository

import (
	"context"

	"youtube-unlister/domain/model"
)

// ITokenRepository loads and stores the cached OAuth2 credential
type ITokenRepository interface {
	Load(ctx context.Context) (*model.Credential, error)
	Save(ctx context.Context, cred *model.Credential) error
	// Location describes where the credential lives, for logging.
	Location() string
}
