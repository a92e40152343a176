package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type AdminHandler struct {
	db    *gorm.DB
	stats *services.StatisticsService
}

func NewAdminHandler(db *gorm.DB, stats *services.StatisticsService) *AdminHandler {
	return &AdminHandler{db: db, stats: stats}
}

// VerifyAccess confirms the caller passed the admin gate
func (h *AdminHandler) VerifyAccess(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"is_admin": true,
		"admin_id": getUintFromContext(c, "adminID"),
		"role":     getStringFromContext(c, "adminRole"),
	})
}

// DashboardStatistics returns the fund-wide aggregates
func (h *AdminHandler) DashboardStatistics(c echo.Context) error {
	stats, err := h.stats.DashboardStatistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

type memberRow struct {
	models.MemberProfile
	TotalContributions float64 `json:"total_contributions"`
	ContributionCount  int64   `json:"contribution_count"`
}

// ListMembers returns all member profiles with contribution aggregates
func (h *AdminHandler) ListMembers(c echo.Context) error {
	page, pageSize, offset := parsePagination(c)

	var total int64
	if err := h.db.Model(&models.MemberProfile{}).Count(&total).Error; err != nil {
		return err
	}

	var members []memberRow
	err := h.db.Model(&models.MemberProfile{}).
		Select("member_profiles.*, COALESCE(SUM(contributions.amount), 0) AS total_contributions, COUNT(contributions.id) AS contribution_count").
		Joins("LEFT JOIN contributions ON contributions.profile_id = member_profiles.id AND contributions.deleted_at IS NULL").
		Group("member_profiles.id").
		Order("member_profiles.created_at desc").
		Limit(pageSize).Offset(offset).
		Scan(&members).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newPaginatedResponse(members, total, page, pageSize))
}

// PendingRequests returns all assistance requests awaiting a decision
func (h *AdminHandler) PendingRequests(c echo.Context) error {
	var requests []models.AssistanceRequest
	err := h.db.Where("status = ?", models.RequestStatusPending).
		Preload("Profile").
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"requests": requests})
}

type approveRequestPayload struct {
	ApprovedAmount float64 `json:"approved_amount"`
	Installments   int     `json:"installments"`
	AdminNotes     string  `json:"admin_notes"`
}

// ApproveRequest approves a pending request and persists the computed
// repayment plan. The approval, the plan and its installments are
// written in one transaction.
func (h *AdminHandler) ApproveRequest(c echo.Context) error {
	adminID := getUintFromContext(c, "adminID")

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var payload approveRequestPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if payload.ApprovedAmount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "approved_amount must be positive")
	}
	installments := payload.Installments
	if installments == 0 {
		installments = services.MaxInstallments
	}

	plan, err := services.CalculateRepaymentPlan(payload.ApprovedAmount, installments, time.Now())
	if err != nil {
		return err
	}

	var repayment models.Repayment
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var request models.AssistanceRequest
		if err := tx.First(&request, uint(requestID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrRequestNotFound
			}
			return err
		}
		if request.Status != models.RequestStatusPending {
			return services.ErrRequestNotPending
		}

		now := time.Now()
		request.Status = models.RequestStatusApproved
		request.ApprovedAmount = payload.ApprovedAmount
		request.AdminNotes = payload.AdminNotes
		request.ApprovedBy = &adminID
		request.ApprovedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		repayment = models.Repayment{
			UserID:            request.UserID,
			ProfileID:         request.ProfileID,
			RequestID:         request.ID,
			ApprovedAmount:    plan.ApprovedAmount,
			AdministrativeFee: plan.AdministrativeFee,
			TotalToRepay:      plan.TotalToRepay,
			Installments:      plan.Installments,
			InstallmentAmount: plan.InstallmentAmount,
			Status:            models.RepaymentStatusActive,
			NextDueDate:       &plan.FirstDueDate,
		}
		if err := tx.Create(&repayment).Error; err != nil {
			return err
		}

		for _, entry := range plan.Schedule {
			installment := models.RepaymentInstallment{
				UserID:            request.UserID,
				RepaymentID:       repayment.ID,
				InstallmentNumber: entry.InstallmentNumber,
				Amount:            entry.Amount,
				DueDate:           entry.DueDate,
				Status:            entry.Status,
			}
			if err := tx.Create(&installment).Error; err != nil {
				return err
			}
		}

		payout := models.Payout{
			UserID:        request.UserID,
			RequestID:     request.ID,
			Amount:        payload.ApprovedAmount,
			PayoutType:    request.PayoutType,
			RecipientName: request.PayoutRecipientName,
			RecipientAcct: request.PayoutRecipientAccout,
			Status:        models.PayoutStatusScheduled,
		}
		return tx.Create(&payout).Error
	})
	if err != nil {
		return err
	}

	h.stats.InvalidateDashboard(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Request approved",
		"repayment_id": repayment.ID,
		"plan":         plan,
	})
}

type rejectRequestPayload struct {
	AdminNotes string `json:"admin_notes"`
}

// RejectRequest rejects a pending assistance request
func (h *AdminHandler) RejectRequest(c echo.Context) error {
	adminID := getUintFromContext(c, "adminID")

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var payload rejectRequestPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var request models.AssistanceRequest
		if err := tx.First(&request, uint(requestID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrRequestNotFound
			}
			return err
		}
		if request.Status != models.RequestStatusPending {
			return services.ErrRequestNotPending
		}

		now := time.Now()
		request.Status = models.RequestStatusRejected
		request.AdminNotes = payload.AdminNotes
		request.ApprovedBy = &adminID
		request.ApprovedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return err
	}

	h.stats.InvalidateDashboard(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"message": "Request rejected"})
}

// PaymentHistory returns paid contributions across all members
func (h *AdminHandler) PaymentHistory(c echo.Context) error {
	page, pageSize, offset := parsePagination(c)

	query := h.db.Model(&models.Contribution{}).Where("status = ?", models.PaymentStatusPaid)
	if ct := c.QueryParam("contribution_type"); ct != "" {
		query = query.Where("contribution_type = ?", ct)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var contributions []models.Contribution
	err := query.Preload("Profile").
		Order("payment_date desc").
		Limit(pageSize).Offset(offset).
		Find(&contributions).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newPaginatedResponse(contributions, total, page, pageSize))
}

// PublishStory marks a submitted success story as published
func (h *AdminHandler) PublishStory(c echo.Context) error {
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	var story models.SuccessStory
	if err := h.db.First(&story, uint(storyID)).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Success story not found")
	}

	now := time.Now()
	story.Published = true
	story.PublishedAt = &now
	if err := h.db.Save(&story).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, story)
}
