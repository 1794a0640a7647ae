package server

import (
	"fmt"
	"net/http"
	"time"

	httpHandler "youtube-unlister/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// InitiateRouter wires the consent listener: the two OAuth routes and a
// health check. Only the local loopback origins are allowed cross-origin.
func InitiateRouter(youtubeAuthHandler httpHandler.IYouTubeAuthHandler, port int) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	origins := []string{
		fmt.Sprintf("http://localhost:%d", port),
		fmt.Sprintf("http://127.0.0.1:%d", port),
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/authorize", youtubeAuthHandler.Authorize)
	router.GET("/oauth2callback", youtubeAuthHandler.HandleCallback)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	return router
}
