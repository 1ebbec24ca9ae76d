package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"scoring/models"
	"scoring/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourtHandler struct {
	db *gorm.DB
}

func NewCourtHandler(db *gorm.DB) *CourtHandler {
	return &CourtHandler{
		db: db,
	}
}

// GetCourts lists all active courts
// @Summary List courts
// @Description Get all active courts
// @Tags courts
// @Produce json
// @Success 200 {array} models.Court
// @Failure 500 {object} map[string]string
// @Router /courts [get]
func (h *CourtHandler) GetCourts(c *gin.Context) {
	var courts []models.Court
	if err := h.db.Where("active = ?", true).Order("name ASC").Find(&courts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve courts",
		})
		return
	}

	c.JSON(http.StatusOK, courts)
}

// GetCourt retrieves one court by ID
// @Summary Get a court
// @Description Get a single court by its ID
// @Tags courts
// @Produce json
// @Param id path int true "Court ID"
// @Success 200 {object} models.Court
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /courts/{id} [get]
func (h *CourtHandler) GetCourt(c *gin.Context) {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid court ID",
		})
		return
	}

	var court models.Court
	if err := h.db.First(&court, uint(courtID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": services.ErrCourtNotFound.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve court",
		})
		return
	}

	c.JSON(http.StatusOK, court)
}

// CreateCourt creates a new court
// @Summary Create a court
// @Description Create a new court. Requires the staff role.
// @Tags courts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param court body models.CreateCourtRequest true "Court data"
// @Success 201 {object} models.Court
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courts [post]
func (h *CourtHandler) CreateCourt(c *gin.Context) {
	var req models.CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	court := models.Court{
		PublicID: uuid.New(),
		Name:     req.Name,
		Active:   true,
	}
	if err := h.db.Create(&court).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A court with this name already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create court",
		})
		return
	}

	c.JSON(http.StatusCreated, court)
}
