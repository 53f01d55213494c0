package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/domain"
	"github.com/linkup/linkup-server/internal/storage"
)

type createRoomRequest struct {
	RoomID string `json:"roomId" binding:"required"`
	Name   string `json:"name"`
}

func (d *Deps) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "valid roomId is required"})
		return
	}

	room, err := d.Store.Rooms().Create(c.Request.Context(), domain.RoomID(req.RoomID), req.Name, currentUserID(c))
	if errors.Is(err, storage.ErrRoomExists) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "room already exists"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "room created successfully", "room": room})
}

func (d *Deps) handleGetRoom(c *gin.Context) {
	room, err := d.Store.Rooms().Get(c.Request.Context(), domain.RoomID(c.Param("roomId")))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	// live presence comes from the membership table, not from the
	// persisted attendance log
	c.JSON(http.StatusOK, gin.H{
		"room":    room,
		"present": d.Coord.Rooms.AllMembers(room.ID),
	})
}

func (d *Deps) handleJoinRoom(c *gin.Context) {
	userID := currentUserID(c)
	user, err := d.Store.Users().FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not found"})
		return
	}
	if err := d.Store.Rooms().AddParticipant(c.Request.Context(), domain.RoomID(c.Param("roomId")), userID, user.Name); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("join room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined room successfully"})
}

func (d *Deps) handleLeaveRoom(c *gin.Context) {
	if err := d.Store.Rooms().MarkLeft(c.Request.Context(), domain.RoomID(c.Param("roomId")), currentUserID(c)); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("leave room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left room successfully"})
}

func (d *Deps) handleEndRoom(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	room, err := d.Store.Rooms().Get(c.Request.Context(), roomID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	if room.CreatedBy != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "only the creator can end the room"})
		return
	}
	if err := d.Store.Rooms().End(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room ended"})
}

func (d *Deps) handleListMessages(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "before must be RFC3339"})
			return
		}
	}

	msgs, err := d.Store.Messages().ListByRoom(c.Request.Context(), domain.RoomID(c.Param("roomId")), before, limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
