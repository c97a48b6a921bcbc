// Package api contains administrative APIs used for inspecting and manipulating the peer registry
package api

import (
	"github.com/gin-gonic/gin"
)

// Controller contains a set of functionalities for the API
type Controller interface {
	registerRoutes(r *gin.Engine, s ServerSettings)
}

// NewAdminAPI bootstraps the creation of the gin engine
func NewAdminAPI(controllers []Controller, s ServerSettings) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.Debug {
		r.Use(gin.Logger())
	}
	for _, controller := range controllers {
		controller.registerRoutes(r, s)
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Every peer gets its turn.",
		})
	})
	return r
}
