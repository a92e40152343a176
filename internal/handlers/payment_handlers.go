package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

type initiatePaymentRequest struct {
	Purpose       models.PaymentPurpose `json:"purpose"`
	InstallmentID uint                  `json:"installment_id"`
	ForceNew      bool                  `json:"force_new"`
}

// InitiatePayment opens a gateway checkout session for a join fee,
// monthly contribution or repayment installment
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	var profile models.MemberProfile
	if err := h.db.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProfileNotFound
		}
		return err
	}

	var installment *models.RepaymentInstallment
	switch req.Purpose {
	case models.PaymentPurposeJoinFee:
		if profile.JoinFeePaid {
			return echo.NewHTTPError(http.StatusBadRequest, "Join fee is already paid")
		}
	case models.PaymentPurposeMonthly:
		// nothing extra to resolve
	case models.PaymentPurposeInstallment:
		if req.InstallmentID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "installment_id is required")
		}
		var inst models.RepaymentInstallment
		err := h.db.Where("id = ? AND user_id = ?", req.InstallmentID, uid).First(&inst).Error
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Installment not found")
		}
		if inst.Status == models.PaymentStatusPaid {
			return echo.NewHTTPError(http.StatusBadRequest, "Installment is already paid")
		}
		installment = &inst
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment purpose")
	}

	result, err := h.payments.InitiatePayment(&profile, req.Purpose, installment, req.ForceNew, os.Getenv("PAYMENT_FINISH_URL"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create transaction: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":        result.Token,
		"redirect_url": result.RedirectURL,
		"is_existing":  result.IsExisting,
	})
}

// MidtransCallback handles gateway notifications. The endpoint is
// public; the payload signature is verified before anything is applied.
func (h *PaymentHandler) MidtransCallback(c echo.Context) error {
	var notificationPayload map[string]interface{}
	if err := c.Bind(&notificationPayload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	result, err := h.payments.HandleCallback(c.Request().Context(), notificationPayload)
	if err != nil {
		c.Logger().Errorf("payment callback failed: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Callback rejected")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"applied": result.Applied,
	})
}
