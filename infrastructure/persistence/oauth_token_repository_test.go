package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"youtube-unlister/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestOAuthTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_file", func(t *testing.T) {
		repo := NewOAuthTokenRepository(filepath.Join(t.TempDir(), "tokens.json"))
		_, err := repo.Load(ctx)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("save_then_load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tokens.json")
		repo := NewOAuthTokenRepository(path)
		expiry := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
		cred := &model.Credential{
			AccessToken:  "access",
			TokenType:    "Bearer",
			RefreshToken: "refresh",
			Expiry:       expiry,
			Scope:        "https://www.googleapis.com/auth/youtube.force-ssl",
		}
		require.NoError(t, repo.Save(ctx, cred))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "refresh", loaded.RefreshToken)
		assert.Equal(t, cred.Scope, loaded.Scope)
		assert.True(t, expiry.Equal(loaded.Expiry))
		assert.Equal(t, path, repo.Location())
	})

	t.Run("save_overwrites", func(t *testing.T) {
		repo := NewOAuthTokenRepository(filepath.Join(t.TempDir(), "tokens.json"))
		require.NoError(t, repo.Save(ctx, &model.Credential{RefreshToken: "old"}))
		require.NoError(t, repo.Save(ctx, &model.Credential{RefreshToken: "new"}))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", loaded.RefreshToken)
	})

	t.Run("malformed_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := NewOAuthTokenRepository(path).Load(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("legacy_expiry_date", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		legacy := `{"access_token":"a","refresh_token":"r","scope":"s","token_type":"Bearer","expiry_date":1760000000000}`
		require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

		cred, err := NewOAuthTokenRepository(path).Load(ctx)
		require.NoError(t, err)
		assert.True(t, cred.HasRefreshToken())
		assert.Equal(t, time.UnixMilli(1760000000000).Unix(), cred.Token().Expiry.Unix())
	})
}

func TestNewTokenRepository(t *testing.T) {
	ctx := context.Background()

	repo, err := NewTokenRepository(ctx, "tokens.json")
	require.NoError(t, err)
	assert.IsType(t, &OAuthTokenRepository{}, repo)

	_, err = NewTokenRepository(ctx, "gs://bucket")
	require.Error(t, err)
}

func TestNewOAuthTokenRepositoryGCS(t *testing.T) {
	repo, err := NewOAuthTokenRepositoryGCS(context.Background(), "gs://my-bucket/creds/tokens.json", option.WithoutAuthentication())
	require.NoError(t, err)
	assert.Equal(t, "gs://my-bucket/creds/tokens.json", repo.Location())
	assert.Equal(t, "my-bucket", repo.bucket)
	assert.Equal(t, "creds/tokens.json", repo.object)
}

func TestGoogleStorageAddr(t *testing.T) {
	tests := []struct {
		addr    string
		bucket  string
		object  string
		wantErr bool
	}{
		{addr: "gs://bucket/tokens.json", bucket: "bucket", object: "tokens.json"},
		{addr: "gs://bucket/a/b.json", bucket: "bucket", object: "a/b.json"},
		{addr: "s3://bucket/tokens.json", wantErr: true},
		{addr: "gs://bucket/", wantErr: true},
		{addr: "tokens.json", wantErr: true},
	}
	for _, test := range tests {
		bucket, object, err := googleStorageAddr(test.addr)
		if test.wantErr {
			assert.Error(t, err, test.addr)
			continue
		}
		require.NoError(t, err, test.addr)
		assert.Equal(t, test.bucket, bucket)
		assert.Equal(t, test.object, object)
	}
}
