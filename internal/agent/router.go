// Package agent exposes the timer controller's command contract over
// a local HTTP endpoint. The popup and the blocked page are separate
// processes; each sends discrete command messages and expects the
// post-command snapshot back synchronously.
package agent

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miguel-sanchez/PomodoroPal/internal/timer"
)

func NewRouter(controller *timer.Controller) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Convenience poll for UI surfaces that only ever read.
	engine.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, controller.Snapshot())
	})

	engine.POST("/command", func(c *gin.Context) {
		var cmd timer.Command
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
			return
		}

		snapshot, err := controller.Dispatch(cmd)
		if err != nil {
			if errors.Is(err, timer.ErrUnknownAction) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	})

	return engine
}
