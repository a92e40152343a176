package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type RequestHandler struct {
	db         *gorm.DB
	membership *services.MembershipService
}

func NewRequestHandler(db *gorm.DB, membership *services.MembershipService) *RequestHandler {
	return &RequestHandler{db: db, membership: membership}
}

type createRequestPayload struct {
	RequestType           string            `json:"request_type"`
	RequestedAmount       float64           `json:"requested_amount"`
	PayoutType            models.PayoutType `json:"payout_type"`
	PayoutRecipientName   string            `json:"payout_recipient_name"`
	PayoutRecipientAccout string            `json:"payout_recipient_account"`
	Description           string            `json:"description"`
}

// CreateRequest files an assistance request. The member must pass the
// eligibility check and the amount must stay within the class limit.
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var req createRequestPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.RequestedAmount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "requested_amount must be positive")
	}

	eligibility, err := h.membership.CheckEligibility(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	if !eligibility.Eligible {
		return &services.IneligibleError{Reason: eligibility.Reason, Message: eligibility.Message}
	}
	if req.RequestedAmount > eligibility.Limit {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("requested amount exceeds class %s limit of %.2f", eligibility.Class, eligibility.Limit))
	}

	var profile models.MemberProfile
	if err := h.db.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProfileNotFound
		}
		return err
	}

	request := models.AssistanceRequest{
		UserID:                uid,
		ProfileID:             profile.ID,
		RequestType:           req.RequestType,
		RequestedAmount:       req.RequestedAmount,
		Status:                models.RequestStatusPending,
		PayoutType:            req.PayoutType,
		PayoutRecipientName:   req.PayoutRecipientName,
		PayoutRecipientAccout: req.PayoutRecipientAccout,
		Description:           req.Description,
	}
	if err := h.db.Create(&request).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, request)
}

// ListMyRequests returns the member's assistance requests, paginated
func (h *RequestHandler) ListMyRequests(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")
	page, pageSize, offset := parsePagination(c)

	query := h.db.Model(&models.AssistanceRequest{}).Where("user_id = ?", uid)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var requests []models.AssistanceRequest
	err := query.Order("id desc").Limit(pageSize).Offset(offset).Find(&requests).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newPaginatedResponse(requests, total, page, pageSize))
}
