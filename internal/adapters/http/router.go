// Package http serves a local inspection and control API for the
// headless client.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/Sketch/internal/config"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RoomController is the slice of the orchestrator the router drives.
type RoomController interface {
	Snapshot() core.Snapshot
	Create(ctx context.Context, req domain.RoomRequest) error
	Join(ctx context.Context, codeword string) error
	Leave()
	SendChat(content string) error
	ToggleReady() error
}

type joinBody struct {
	Codeword string `json:"codeword"`
}

type chatBody struct {
	Content string `json:"content" binding:"required,max=500"`
}

func SetupRouter(cfg *config.Config, rc RoomController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/room", func(c *gin.Context) {
		c.JSON(http.StatusOK, rc.Snapshot())
	})

	api.POST("/room", func(c *gin.Context) {
		var req domain.RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := rc.Create(c.Request.Context(), req); err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusCreated, rc.Snapshot())
	})

	api.POST("/room/join", func(c *gin.Context) {
		var body joinBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := rc.Join(c.Request.Context(), body.Codeword); err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, rc.Snapshot())
	})

	api.POST("/room/leave", func(c *gin.Context) {
		rc.Leave()
		c.Status(http.StatusNoContent)
	})

	api.POST("/room/chat", func(c *gin.Context) {
		var body chatBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := rc.SendChat(body.Content); err != nil {
			abortWith(c, err)
			return
		}
		c.Status(http.StatusAccepted)
	})

	api.POST("/room/ready", func(c *gin.Context) {
		if err := rc.ToggleReady(); err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"isReady": rc.Snapshot().IsReadyLocal})
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}

func abortWith(c *gin.Context, err error) {
	var verr *core.ValidationError
	var terr *core.TransportError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error(), "field": verr.Field})
	case errors.As(err, &terr):
		c.JSON(http.StatusBadGateway, gin.H{"message": core.UserMessage(err)})
	case errors.Is(err, core.ErrStaleResult):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": core.MsgUnexpected})
	}
}
