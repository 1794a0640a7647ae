package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthHandler struct {
	authorized int
	callbacks  int
}

func (s *stubAuthHandler) Authorize(ctx *gin.Context) {
	s.authorized++
	ctx.Redirect(http.StatusFound, "https://accounts.example.com/auth")
}

func (s *stubAuthHandler) HandleCallback(ctx *gin.Context) {
	s.callbacks++
	ctx.String(http.StatusOK, "done")
}

func TestInitiateRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &stubAuthHandler{}
	router := InitiateRouter(handler, 3000)

	tests := []struct {
		path   string
		status int
	}{
		{path: "/authorize", status: http.StatusFound},
		{path: "/oauth2callback?code=x", status: http.StatusOK},
		{path: "/healthz", status: http.StatusOK},
		{path: "/unknown", status: http.StatusNotFound},
	}
	for _, test := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, test.path, nil))
		assert.Equal(t, test.status, w.Code, test.path)
	}
	assert.Equal(t, 1, handler.authorized)
	assert.Equal(t, 1, handler.callbacks)
}

func TestInitiateRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := InitiateRouter(&stubAuthHandler{}, 3000)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
