package youtube

import (
	"context"
	"sync"

	"youtube-unlister/infrastructure/logger"

	"golang.org/x/oauth2"
)

// TokenNotifyFunc is called with the new token whenever it is refreshed.
type TokenNotifyFunc func(*oauth2.Token) error

// NotifyingTokenSource implements oauth2.TokenSource and reports every
// refresh of the underlying token to a callback.
type NotifyingTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	notify TokenNotifyFunc
	// Most recent known token.
	curr *oauth2.Token
}

// NewNotifyingTokenSource creates a token source refreshing tok through cfg.
func NewNotifyingTokenSource(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, notify TokenNotifyFunc) *NotifyingTokenSource {
	return &NotifyingTokenSource{
		src:    cfg.TokenSource(ctx, tok),
		notify: notify,
		curr:   tok,
	}
}

// Token returns a valid token, calling the notify callback if it had to be
// refreshed (or no access token was known before).
func (s *NotifyingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curr == nil || s.curr.AccessToken != tok.AccessToken {
		s.curr = tok
		if s.notify != nil {
			// The refreshed token is still usable when the callback fails.
			if err := s.notify(tok); err != nil {
				logger.GetLogger().WithField("error", err).Warn("Token refresh callback failed")
			}
		}
	}
	return s.curr, nil
}
