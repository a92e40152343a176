package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// JoinFeeAmount is the one-time membership activation fee
const JoinFeeAmount = 100.00

// PaymentService drives checkout sessions at the gateway and applies
// the effects of gateway notifications
type PaymentService struct {
	db             *gorm.DB
	cache          *RedisCache
	midtransClient *MidtransService
	membership     *MembershipService
	tariffs        ClassTariffs
}

func NewPaymentService(db *gorm.DB, cache *RedisCache, midtransClient *MidtransService, membership *MembershipService, tariffs ClassTariffs) *PaymentService {
	return &PaymentService{
		db:             db,
		cache:          cache,
		midtransClient: midtransClient,
		membership:     membership,
		tariffs:        tariffs,
	}
}

// InitiatePaymentResult holds the result of an initiation attempt
type InitiatePaymentResult struct {
	Token       string
	RedirectURL string
	IsExisting  bool
}

// checkActiveSession returns the latest active session for the given
// profile, purpose and optional installment, or nil when none exists
func (s *PaymentService) checkActiveSession(profileID uint, purpose models.PaymentPurpose, installmentID *uint) (*models.PaymentSession, error) {
	query := s.db.Where("profile_id = ? AND purpose = ? AND is_active = ?", profileID, purpose, true)
	if installmentID != nil {
		query = query.Where("installment_id = ?", *installmentID)
	}

	var existing models.PaymentSession
	err := query.Order("created_at desc").First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// paymentAmount resolves what the member owes for a purpose
func (s *PaymentService) paymentAmount(profile *models.MemberProfile, purpose models.PaymentPurpose, installment *models.RepaymentInstallment) (float64, string, error) {
	switch purpose {
	case models.PaymentPurposeJoinFee:
		return JoinFeeAmount, "Membership join fee", nil
	case models.PaymentPurposeMonthly:
		tariff := s.tariffs.For(profile.MembershipClass)
		if tariff.Monthly == 0 {
			return 0, "", fmt.Errorf("no tariff for class %s", profile.MembershipClass)
		}
		return tariff.Monthly, fmt.Sprintf("Class %s monthly contribution", profile.MembershipClass), nil
	case models.PaymentPurposeInstallment:
		if installment == nil {
			return 0, "", errors.New("installment payment requires an installment")
		}
		return installment.Amount, fmt.Sprintf("Repayment installment #%d", installment.InstallmentNumber), nil
	}
	return 0, "", fmt.Errorf("unknown payment purpose %q", purpose)
}

// InitiatePayment starts or resumes a checkout session for a member.
// An existing active session is reused while the gateway still reports
// it pending, unless forceNew cancels it first.
func (s *PaymentService) InitiatePayment(profile *models.MemberProfile, purpose models.PaymentPurpose, installment *models.RepaymentInstallment, forceNew bool, callbackURL string) (*InitiatePaymentResult, error) {
	var installmentID *uint
	if installment != nil {
		installmentID = &installment.ID
	}

	existing, err := s.checkActiveSession(profile.ID, purpose, installmentID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		statusResp, err := s.midtransClient.CheckTransaction(existing.OrderID)
		if err == nil {
			switch statusResp.TransactionStatus {
			case "settlement", "capture":
				return nil, errors.New("payment already made")
			case "deny", "expire", "cancel", "failure":
				existing.IsActive = false
				s.db.Save(existing)
			default: // still pending at the gateway
				if forceNew {
					s.midtransClient.CancelTransaction(existing.OrderID)
					existing.IsActive = false
					s.db.Save(existing)
				} else {
					var midtransResp snap.Response
					if err := json.Unmarshal(existing.ResponseMetadata, &midtransResp); err == nil {
						return &InitiatePaymentResult{
							Token:       midtransResp.Token,
							RedirectURL: midtransResp.RedirectURL,
							IsExisting:  true,
						}, nil
					}
					// Broken metadata, retire the session
					existing.IsActive = false
					s.db.Save(existing)
				}
			}
		} else {
			// Status check failed, assume the session is broken locally
			existing.IsActive = false
			s.db.Save(existing)
		}
	}

	amount, itemName, err := s.paymentAmount(profile, purpose, installment)
	if err != nil {
		return nil, err
	}
	grossAmt := int64(math.Round(amount))

	orderID := fmt.Sprintf("fund-%s-%s", purpose, uuid.New().String())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: profile.FullName,
			Email: profile.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("profile-%d-%s", profile.ID, purpose),
				Name:  itemName,
				Price: grossAmt,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}

	resp, err := s.midtransClient.CreateTransaction(orderID, grossAmt, req)
	if err != nil {
		return nil, err
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	session := models.PaymentSession{
		ProfileID:        profile.ID,
		UserID:           profile.UserID,
		Purpose:          purpose,
		InstallmentID:    installmentID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           amount,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	s.db.Create(&session)

	return &InitiatePaymentResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		IsExisting:  false,
	}, nil
}

// CallbackResult describes what a gateway notification changed
type CallbackResult struct {
	OrderID          string `json:"order_id"`
	Applied          bool   `json:"applied"`
	UpgradeActivated bool   `json:"upgrade_activated"`
	Message          string `json:"message"`
}

// HandleCallback records and applies a gateway notification. Every
// payload is stored in the callback history before any effect is
// applied; a Redis lock guards against double-processing the same order.
func (s *PaymentService) HandleCallback(ctx context.Context, payload map[string]interface{}) (*CallbackResult, error) {
	orderID, _ := payload["order_id"].(string)
	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)
	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signatureKey, _ := payload["signature_key"].(string)

	rawPayload, _ := json.Marshal(payload)
	s.db.Create(&models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		OrderID:        orderID,
		Metadata:       rawPayload,
	})

	if orderID == "" {
		return nil, errors.New("callback payload missing order_id")
	}
	if !s.midtransClient.VerifySignature(orderID, statusCode, grossAmount, signatureKey) {
		return nil, fmt.Errorf("invalid callback signature for order %s", orderID)
	}

	var session models.PaymentSession
	if err := s.db.Where("order_id = ?", orderID).First(&session).Error; err != nil {
		return nil, fmt.Errorf("no payment session for order %s: %w", orderID, err)
	}

	settled := transactionStatus == "settlement" ||
		(transactionStatus == "capture" && fraudStatus == "accept")

	if !settled {
		if transactionStatus == "deny" || transactionStatus == "expire" || transactionStatus == "cancel" {
			session.IsActive = false
			s.db.Save(&session)
		}
		return &CallbackResult{OrderID: orderID, Message: "status " + transactionStatus + " recorded"}, nil
	}

	// Idempotency guard: a repeated settlement notification must not
	// double-count a contribution or installment.
	if s.cache != nil {
		acquired, err := s.cache.SetNX(ctx, "payment_callback:"+orderID, true, 24*time.Hour)
		if err == nil && !acquired {
			return &CallbackResult{OrderID: orderID, Message: "already processed"}, nil
		}
	}

	return s.applySettlement(ctx, &session, payload)
}

func (s *PaymentService) applySettlement(ctx context.Context, session *models.PaymentSession, payload map[string]interface{}) (*CallbackResult, error) {
	channel, _ := payload["payment_type"].(string)
	gatewayID, _ := payload["transaction_id"].(string)
	now := time.Now()

	result := &CallbackResult{OrderID: session.OrderID, Applied: true}

	switch session.Purpose {
	case models.PaymentPurposeJoinFee, models.PaymentPurposeMonthly:
		contributionType := models.ContributionTypeJoinFee
		if session.Purpose == models.PaymentPurposeMonthly {
			contributionType = models.ContributionTypeMonthly
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			contribution := models.Contribution{
				UserID:           session.UserID,
				ProfileID:        session.ProfileID,
				ContributionType: contributionType,
				Amount:           session.Amount,
				Status:           models.PaymentStatusPaid,
				PaymentGateway:   session.PaymentGateway,
				ChannelPayment:   channel,
				GatewayPaymentID: gatewayID,
				PaymentDate:      &now,
			}
			if err := tx.Create(&contribution).Error; err != nil {
				return err
			}

			var profile models.MemberProfile
			if err := tx.First(&profile, session.ProfileID).Error; err != nil {
				return err
			}
			if contributionType == models.ContributionTypeJoinFee {
				profile.JoinFeePaid = true
			} else {
				profile.ConsecutiveMonthsPaid++
				if profile.MonthsLate > 0 {
					profile.MonthsLate--
				}
			}
			if err := tx.Save(&profile).Error; err != nil {
				return err
			}

			session.IsActive = false
			return tx.Save(session).Error
		})
		if err != nil {
			return nil, err
		}

		if contributionType == models.ContributionTypeMonthly {
			outcome, err := s.membership.OnMonthlyPayment(ctx, session.UserID)
			if err != nil {
				return nil, err
			}
			result.UpgradeActivated = outcome.UpgradeActivated
			result.Message = outcome.Message
		} else {
			result.Message = "join fee paid, membership activated"
		}

	case models.PaymentPurposeInstallment:
		if session.InstallmentID == nil {
			return nil, fmt.Errorf("installment session %s has no installment reference", session.OrderID)
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			var installment models.RepaymentInstallment
			if err := tx.First(&installment, *session.InstallmentID).Error; err != nil {
				return err
			}
			if installment.Status == models.PaymentStatusPaid {
				return nil
			}

			installment.Status = models.PaymentStatusPaid
			installment.PaidDate = &now
			installment.GatewayPaymentID = gatewayID
			if err := tx.Save(&installment).Error; err != nil {
				return err
			}

			var repayment models.Repayment
			if err := tx.First(&repayment, installment.RepaymentID).Error; err != nil {
				return err
			}
			repayment.PaidInstallments++
			if repayment.PaidInstallments >= repayment.Installments {
				repayment.Status = models.RepaymentStatusCompleted
				repayment.NextDueDate = nil
			} else {
				var next models.RepaymentInstallment
				unpaid := []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue}
				err := tx.Where("repayment_id = ? AND status IN ?", repayment.ID, unpaid).
					Order("due_date asc").First(&next).Error
				if err == nil {
					repayment.NextDueDate = &next.DueDate
				}
			}
			if err := tx.Save(&repayment).Error; err != nil {
				return err
			}

			session.IsActive = false
			return tx.Save(session).Error
		})
		if err != nil {
			return nil, err
		}
		result.Message = "installment paid"

	default:
		return nil, fmt.Errorf("unknown payment purpose %q on session %s", session.Purpose, session.OrderID)
	}

	return result, nil
}
