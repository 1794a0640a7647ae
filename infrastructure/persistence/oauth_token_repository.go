package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"youtube-unlister/domain/model"
	"youtube-unlister/domain/repository"
)

// ErrTokenNotFound means no credential has been cached yet.
var ErrTokenNotFound = errors.New("no cached token")

// NewTokenRepository picks the credential store for path: a gs://bucket/object
// URI selects Google Cloud Storage, anything else a local JSON file.
func NewTokenRepository(ctx context.Context, path string) (repository.ITokenRepository, error) {
	if strings.HasPrefix(path, "gs://") {
		repo, err := NewOAuthTokenRepositoryGCS(ctx, path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return NewOAuthTokenRepository(path), nil
}

// OAuthTokenRepository keeps the credential in a local JSON file.
type OAuthTokenRepository struct{ path string }

func NewOAuthTokenRepository(path string) *OAuthTokenRepository {
	return &OAuthTokenRepository{path: path}
}

func (r *OAuthTokenRepository) Location() string { return r.path }

func (r *OAuthTokenRepository) Load(ctx context.Context) (*model.Credential, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read token file %s: %w", r.path, err)
	}
	return decodeCredential(data, r.path)
}

// Save overwrites the file with the credential, readable by the owner only.
func (r *OAuthTokenRepository) Save(ctx context.Context, cred *model.Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode token: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("could not create token directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("could not write token file %s: %w", r.path, err)
	}
	return nil
}

func decodeCredential(data []byte, location string) (*model.Credential, error) {
	cred := &model.Credential{}
	if err := json.Unmarshal(data, cred); err != nil {
		return nil, fmt.Errorf("could not decode token from %s: %w", location, err)
	}
	return cred, nil
}
