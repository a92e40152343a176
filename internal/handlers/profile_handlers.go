package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetMyProfile returns the authenticated member's profile
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var profile models.MemberProfile
	err := h.db.Where("user_id = ?", uid).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProfileNotFound
		}
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

type createProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// CreateMyProfile registers a profile for a newly signed-up member.
// New members always start in class A with the join fee unpaid.
func (h *ProfileHandler) CreateMyProfile(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name is required")
	}

	var existing models.MemberProfile
	err := h.db.Where("user_id = ?", uid).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Profile already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	profile := models.MemberProfile{
		UserID:          uid,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           getStringFromContext(c, "userEmail"),
		MembershipClass: models.MembershipClassA,
		AccountStatus:   models.AccountStatusActive,
	}
	if err := h.db.Create(&profile).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, profile)
}
