package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"youtube-unlister/domain/model"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// OAuthTokenRepositoryGCS keeps the credential in a Google Cloud Storage object.
type OAuthTokenRepositoryGCS struct {
	client *storage.Client
	bucket string
	object string
}

// NewOAuthTokenRepositoryGCS creates a store for the object named by a
// gs://bucket/object URI.
func NewOAuthTokenRepositoryGCS(ctx context.Context, uri string, opts ...option.ClientOption) (*OAuthTokenRepositoryGCS, error) {
	bucket, object, err := googleStorageAddr(uri)
	if err != nil {
		return nil, fmt.Errorf("could not parse uri: %w", err)
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create storage client: %w", err)
	}
	return &OAuthTokenRepositoryGCS{client: client, bucket: bucket, object: object}, nil
}

func (r *OAuthTokenRepositoryGCS) Location() string {
	return "gs://" + r.bucket + "/" + r.object
}

func (r *OAuthTokenRepositoryGCS) handle() *storage.ObjectHandle {
	return r.client.Bucket(r.bucket).Object(r.object)
}

func (r *OAuthTokenRepositoryGCS) Load(ctx context.Context) (*model.Credential, error) {
	reader, err := r.handle().NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get reader for object %s: %w", r.Location(), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("could not read bucket object %s: %w", r.Location(), err)
	}
	return decodeCredential(data, r.Location())
}

// Save overwrites the object with the credential.
func (r *OAuthTokenRepositoryGCS) Save(ctx context.Context, cred *model.Credential) error {
	writer := r.handle().NewWriter(ctx)
	writer.ContentType = "application/json"
	if err := json.NewEncoder(writer).Encode(cred); err != nil {
		_ = writer.Close()
		return fmt.Errorf("could not encode token to object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("could not close written object: %w", err)
	}
	return nil
}

func googleStorageAddr(addr string) (bucket, object string, err error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("url does not have gs scheme: %s", u)
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return "", "", fmt.Errorf("url needs both bucket and object: %s", u)
	}
	return u.Host, object, nil
}
