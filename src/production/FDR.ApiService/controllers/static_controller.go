package controllers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// StaticController serves the pre-built operator pages
type StaticController struct {
	dir string
}

// NewStaticController creates a static page controller rooted at dir
func NewStaticController(dir string) *StaticController {
	return &StaticController{dir: dir}
}

// RegisterRoutes registers the operator page routes with Gin
func (c *StaticController) RegisterRoutes(router *gin.Engine) {
	router.StaticFile("/", filepath.Join(c.dir, "index.html"))

	for _, page := range []string{"module.html", "schedule.html", "history.html", "feeders.html"} {
		router.StaticFile("/"+page, filepath.Join(c.dir, page))
	}
}
