package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine for h.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLog())
	if h.origin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{h.origin},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
		}))
	}

	r.GET("/healthz", h.Health)
	r.GET("/projects", h.Projects)

	project := r.Group("/projects/:pid")
	{
		project.GET("/tree", h.Tree)
		project.GET("/disciplines", h.Disciplines)
		project.GET("/drawings/:num", h.Drawing)
		if h.capture != nil {
			project.GET("/status", h.Status)
		}
	}

	if h.capture != nil {
		r.POST("/capture", h.Capture)
	}
	return r
}
