package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type MembershipHandler struct {
	db         *gorm.DB
	membership *services.MembershipService
}

func NewMembershipHandler(db *gorm.DB, membership *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{db: db, membership: membership}
}

// CheckEligibility reports whether the member may request assistance
func (h *MembershipHandler) CheckEligibility(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	result, err := h.membership.CheckEligibility(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type upgradeRequest struct {
	ToClass models.MembershipClass `json:"to_class"`
}

// RequestUpgrade opens a pending class upgrade for the member
func (h *MembershipHandler) RequestUpgrade(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var req upgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.ToClass == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to_class is required")
	}

	result, err := h.membership.RequestUpgrade(c.Request().Context(), uid, req.ToClass)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// ListMyUpgrades returns the member's upgrade history, newest first
func (h *MembershipHandler) ListMyUpgrades(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var upgrades []models.ClassUpgrade
	err := h.db.Where("user_id = ?", uid).Order("id desc").Find(&upgrades).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"upgrades": upgrades})
}
