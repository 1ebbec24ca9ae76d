package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"scoring/models"
	"scoring/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
	undoService  *services.UndoService
}

func NewScoreHandler(scoreService *services.ScoreService, undoService *services.UndoService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		undoService:  undoService,
	}
}

// ScorePoint records one point for a team on a court
// @Summary Score a point
// @Description Apply one point event to the active match on the court. Duplicate submissions carrying the same idempotency key are absorbed without double-counting. Points against a finished match are a soft no-op.
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Court ID"
// @Param event body models.ScoreRequest true "Point event"
// @Success 200 {object} models.ScoreResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courts/{id}/score [post]
func (h *ScoreHandler) ScorePoint(c *gin.Context) {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid court ID",
		})
		return
	}

	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	result, err := h.scoreService.ScorePoint(uint(courtID), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidTeam):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVersionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score point"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// UndoLastPoint takes back the most recent point on a court
// @Summary Undo the last point
// @Description Restore the match to its state before the most recent accepted point. Single-step: call repeatedly to step further back.
// @Tags scoring
// @Security BearerAuth
// @Produce json
// @Param id path int true "Court ID"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courts/{id}/undo [post]
func (h *ScoreHandler) UndoLastPoint(c *gin.Context) {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid court ID",
		})
		return
	}

	match, err := h.undoService.UndoLast(uint(courtID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNothingToUndo):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVersionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo"})
		}
		return
	}

	c.JSON(http.StatusOK, match)
}
