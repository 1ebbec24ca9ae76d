package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"scoring/engine"
	"scoring/services"

	"github.com/gin-gonic/gin"
)

type DisplayHandler struct {
	matchService *services.MatchService
}

func NewDisplayHandler(matchService *services.MatchService) *DisplayHandler {
	return &DisplayHandler{
		matchService: matchService,
	}
}

// GetDisplay projects the latest match on a court for scoreboard rendering
// @Summary Get the scoreboard projection for a court
// @Description Get the renderer-friendly view of the latest match on the court: 0/15/30/40 point labels, Ad markers, deuce and tiebreak flags, set scores and team names. Read-only and safe to poll.
// @Tags display
// @Produce json
// @Param id path int true "Court ID"
// @Success 200 {object} engine.Display
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courts/{id}/display [get]
func (h *DisplayHandler) GetDisplay(c *gin.Context) {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid court ID",
		})
		return
	}

	// The latest match is shown even after it finished, so the board keeps
	// the final score up until the next match starts.
	match, err := h.matchService.GetLatestMatch(uint(courtID))
	if err != nil {
		if errors.Is(err, services.ErrNoActiveMatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve match"})
		return
	}

	display := engine.Project(match.ToEngineState(), match.TeamAPlayers, match.TeamBPlayers)
	c.JSON(http.StatusOK, display)
}
