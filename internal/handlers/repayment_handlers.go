package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type RepaymentHandler struct {
	db *gorm.DB
}

func NewRepaymentHandler(db *gorm.DB) *RepaymentHandler {
	return &RepaymentHandler{db: db}
}

// ListMyRepayments returns the member's repayment plans with their
// installment schedules
func (h *RepaymentHandler) ListMyRepayments(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var repayments []models.Repayment
	err := h.db.Where("user_id = ?", uid).
		Preload("InstallmentRows", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number asc")
		}).
		Order("id desc").
		Find(&repayments).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"repayments": repayments})
}

// OverdueReport runs the overdue scan over one repayment plan's
// installments
func (h *RepaymentHandler) OverdueReport(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	repaymentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid repayment ID")
	}

	// Ownership check: members only see their own plans
	var repayment models.Repayment
	err = h.db.Where("id = ? AND user_id = ?", uint(repaymentID), uid).First(&repayment).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Repayment plan not found")
	}

	var installments []models.RepaymentInstallment
	err = h.db.Where("repayment_id = ?", repayment.ID).
		Order("installment_number asc").
		Find(&installments).Error
	if err != nil {
		return err
	}

	report := services.CheckOverdueInstallments(installments, time.Now())
	return c.JSON(http.StatusOK, report)
}
