package http

import (
	"net/http"
	"sync"

	"youtube-unlister/domain/model"
	"youtube-unlister/domain/repository"
	youtubeclient "youtube-unlister/infrastructure/clients/youtube"
	"youtube-unlister/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const successPage = `<h3>Authentication successful!</h3>
<p>You can close this window. The script is continuing in the console.</p>
`

// AuthorizedFunc receives the token set once it has been persisted. It must
// not block: the callback response is written after it returns.
type AuthorizedFunc func(token *oauth2.Token)

// IYouTubeAuthHandler defines the interface for YouTube authentication handlers
type IYouTubeAuthHandler interface {
	Authorize(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
}

// YouTubeAuthHandler implements the one-time OAuth2 consent flow
type YouTubeAuthHandler struct {
	oauth2Config *oauth2.Config
	tokenRepo    repository.ITokenRepository
	onAuthorized AuthorizedFunc

	mu     sync.Mutex
	states map[string]struct{}
	// Set while a code is being exchanged and kept once a token is saved.
	claimed bool
}

// NewYouTubeAuthHandler creates a new YouTube auth handler
func NewYouTubeAuthHandler(oauth2Config *oauth2.Config, tokenRepo repository.ITokenRepository, onAuthorized AuthorizedFunc) IYouTubeAuthHandler {
	return &YouTubeAuthHandler{
		oauth2Config: oauth2Config,
		tokenRepo:    tokenRepo,
		onAuthorized: onAuthorized,
		states:       make(map[string]struct{}),
	}
}

// Authorize handles GET /authorize
func (h *YouTubeAuthHandler) Authorize(ctx *gin.Context) {
	state := uuid.NewString()
	h.mu.Lock()
	h.states[state] = struct{}{}
	h.mu.Unlock()

	authURL := youtubeclient.ConsentURL(h.oauth2Config, state)
	logger.GetLogger().WithField("url", authURL).Info("Redirecting user to Google for consent")
	ctx.Redirect(http.StatusFound, authURL)
}

// HandleCallback handles GET /oauth2callback
func (h *YouTubeAuthHandler) HandleCallback(ctx *gin.Context) {
	// Check for OAuth error first
	if errorParam := ctx.Query("error"); errorParam != "" {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":       errorParam,
			"description": ctx.Query("error_description"),
		}).Warn("Consent was not granted")
		ctx.String(http.StatusBadRequest, "OAuth error: %s %s", errorParam, ctx.Query("error_description"))
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.String(http.StatusBadRequest, "Missing code parameter.")
		return
	}

	// Google echoes the state it was given. An absent state is tolerated so a
	// consent URL built elsewhere still works.
	if state := ctx.Query("state"); state != "" && !h.consumeState(state) {
		logger.GetLogger().WithField("state", state).Warn("Callback with unknown state")
		ctx.String(http.StatusBadRequest, "Unknown state parameter.")
		return
	}

	// The token file is written at most once per process.
	if !h.claim() {
		logger.GetLogger().Warn("Callback after authorization completed, ignoring")
		ctx.String(http.StatusConflict, "Authorization already completed.")
		return
	}

	token, err := h.oauth2Config.Exchange(ctx.Request.Context(), code)
	if err != nil {
		h.release()
		logger.GetLogger().WithField("error", err).Error("Error retrieving tokens")
		ctx.String(http.StatusInternalServerError, "Error retrieving tokens.")
		return
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"hasAccessToken":  token.AccessToken != "",
		"hasRefreshToken": token.RefreshToken != "",
		"expiry":          token.Expiry,
	}).Info("Tokens acquired")
	if token.RefreshToken == "" {
		logger.GetLogger().Warn("No refresh token returned; the next run will need consent again")
	}

	if err := h.tokenRepo.Save(ctx.Request.Context(), model.CredentialFromToken(token)); err != nil {
		h.release()
		logger.GetLogger().WithField("error", err).Error("Error saving tokens")
		ctx.String(http.StatusInternalServerError, "Error retrieving tokens.")
		return
	}
	logger.GetLogger().WithField("location", h.tokenRepo.Location()).Info("Refresh token saved")

	if h.onAuthorized != nil {
		h.onAuthorized(token)
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage))
}

func (h *YouTubeAuthHandler) consumeState(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.states[state]; !ok {
		return false
	}
	delete(h.states, state)
	return true
}

// claim reserves the single exchange a handler performs. A failed exchange
// or save gives the reservation back with release.
func (h *YouTubeAuthHandler) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.claimed {
		return false
	}
	h.claimed = true
	return true
}

func (h *YouTubeAuthHandler) release() {
	h.mu.Lock()
	h.claimed = false
	h.mu.Unlock()
}
