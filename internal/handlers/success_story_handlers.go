package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type SuccessStoryHandler struct {
	db *gorm.DB
}

func NewSuccessStoryHandler(db *gorm.DB) *SuccessStoryHandler {
	return &SuccessStoryHandler{db: db}
}

// ListPublished returns published stories. Public endpoint.
func (h *SuccessStoryHandler) ListPublished(c echo.Context) error {
	page, pageSize, offset := parsePagination(c)

	query := h.db.Model(&models.SuccessStory{}).Where("published = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var stories []models.SuccessStory
	err := query.Order("published_at desc").Limit(pageSize).Offset(offset).Find(&stories).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newPaginatedResponse(stories, total, page, pageSize))
}

type submitStoryRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SubmitStory records a member's story; it stays unpublished until an
// admin reviews it
func (h *SuccessStoryHandler) SubmitStory(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var req submitStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Title == "" || req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and body are required")
	}

	var profile models.MemberProfile
	if err := h.db.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProfileNotFound
		}
		return err
	}

	story := models.SuccessStory{
		UserID:    uid,
		ProfileID: profile.ID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := h.db.Create(&story).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, story)
}

// ListMyStories returns the member's own submissions
func (h *SuccessStoryHandler) ListMyStories(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var stories []models.SuccessStory
	err := h.db.Where("user_id = ?", uid).Order("id desc").Find(&stories).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stories": stories})
}
