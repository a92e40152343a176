package services

import (
	"context"
	"fmt"
	"time"

	"mutualaid_app/internal/models"
)

// Eligibility reason codes returned by CheckEligibility
const (
	ReasonProfileNotFound        = "profile_not_found"
	ReasonJoinFeeUnpaid          = "join_fee_unpaid"
	ReasonInsufficientPaidMonths = "insufficient_paid_months"
	ReasonInArrears              = "in_arrears"
	ReasonAccountNotActive       = "account_not_active"
)

// MinConsecutiveMonthsPaid is the minimum paid streak before a member may
// request assistance
const MinConsecutiveMonthsPaid = 6

// MaxMonthsLate is the largest arrears tolerated by the eligibility check
const MaxMonthsLate = 2

// ProfileUpdate carries the profile fields membership workflows may
// change. Identity and ownership fields are deliberately absent.
type ProfileUpdate struct {
	MembershipClass       *models.MembershipClass
	AccountStatus         *models.AccountStatus
	JoinFeePaid           *bool
	ConsecutiveMonthsPaid *int
	MonthsLate            *int
	GatewaySubscriptionID *string
}

// UpgradeUpdate carries the upgrade fields the engine may change
type UpgradeUpdate struct {
	Status             *models.UpgradeStatus
	PaymentsInNewClass *int
	ActivatedAt        *time.Time
}

// MemberLedger is the narrow contract the engine uses to read and write
// member profiles. GetProfileByUserID returns (nil, nil) when no profile
// exists.
type MemberLedger interface {
	GetProfileByUserID(ctx context.Context, userID string) (*models.MemberProfile, error)
	UpdateProfile(ctx context.Context, profileID uint, upd ProfileUpdate) error
}

// UpgradeStore is the narrow contract the engine uses for upgrade records
type UpgradeStore interface {
	CreateUpgrade(ctx context.Context, upgrade *models.ClassUpgrade) error
	FindUpgrades(ctx context.Context, userID string, status models.UpgradeStatus) ([]models.ClassUpgrade, error)
	UpdateUpgrade(ctx context.Context, upgradeID uint, upd UpgradeUpdate) error
}

// MembershipStore combines the ledger and upgrade contracts with a
// transaction boundary so composite effects apply atomically
type MembershipStore interface {
	MemberLedger
	UpgradeStore
	Transaction(ctx context.Context, fn func(MembershipStore) error) error
}

// EligibilityResult is the outcome of an eligibility check
type EligibilityResult struct {
	Eligible   bool                   `json:"eligible"`
	Reason     string                 `json:"reason,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Class      models.MembershipClass `json:"class,omitempty"`
	Limit      float64                `json:"limit,omitempty"`
	MonthlyDue float64                `json:"monthly_due,omitempty"`
	PaidMonths int                    `json:"paid_months"`
}

// UpgradeResult is the outcome of a successful upgrade request
type UpgradeResult struct {
	UpgradeID uint                   `json:"upgrade_id"`
	FromClass models.MembershipClass `json:"from_class"`
	ToClass   models.MembershipClass `json:"to_class"`
	Message   string                 `json:"message"`
}

// PaymentOutcome is the result of processing a monthly payment
type PaymentOutcome struct {
	Success          bool   `json:"success"`
	UpgradeActivated bool   `json:"upgrade_activated"`
	Message          string `json:"message"`
}

// MembershipService implements the eligibility rules and the class
// upgrade lifecycle
type MembershipService struct {
	store   MembershipStore
	tariffs ClassTariffs
	now     func() time.Time
}

// NewMembershipService creates the engine with an injected tariff table
func NewMembershipService(store MembershipStore, tariffs ClassTariffs) *MembershipService {
	return &MembershipService{
		store:   store,
		tariffs: tariffs,
		now:     time.Now,
	}
}

// CheckEligibility decides whether a member may request assistance.
// Every gate fails closed: an ineligible result names the first rule
// that failed. No state is mutated.
func (s *MembershipService) CheckEligibility(ctx context.Context, userID string) (*EligibilityResult, error) {
	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &EligibilityResult{
			Eligible: false,
			Reason:   ReasonProfileNotFound,
			Message:  "no member profile found",
		}, nil
	}

	if !profile.JoinFeePaid {
		return &EligibilityResult{
			Eligible: false,
			Reason:   ReasonJoinFeeUnpaid,
			Message:  "membership join fee has not been paid",
		}, nil
	}

	if profile.ConsecutiveMonthsPaid < MinConsecutiveMonthsPaid {
		return &EligibilityResult{
			Eligible:   false,
			Reason:     ReasonInsufficientPaidMonths,
			Message:    fmt.Sprintf("%d consecutive paid months required, you have %d", MinConsecutiveMonthsPaid, profile.ConsecutiveMonthsPaid),
			PaidMonths: profile.ConsecutiveMonthsPaid,
		}, nil
	}

	if profile.MonthsLate > MaxMonthsLate {
		return &EligibilityResult{
			Eligible: false,
			Reason:   ReasonInArrears,
			Message:  fmt.Sprintf("more than %d months in arrears, regularize your payments", MaxMonthsLate),
		}, nil
	}

	if profile.AccountStatus != models.AccountStatusActive {
		return &EligibilityResult{
			Eligible: false,
			Reason:   ReasonAccountNotActive,
			Message:  fmt.Sprintf("account status: %s", profile.AccountStatus),
		}, nil
	}

	tariff := s.tariffs.For(profile.MembershipClass)
	return &EligibilityResult{
		Eligible:   true,
		Class:      profile.MembershipClass,
		Limit:      tariff.Limit,
		MonthlyDue: tariff.Monthly,
		PaidMonths: profile.ConsecutiveMonthsPaid,
	}, nil
}

// RequestUpgrade opens a pending class upgrade. The profile class changes
// right away so the higher limit is visible, while the upgrade only
// activates after three qualifying payments. The upgrade record and the
// class change are written in one transaction.
func (s *MembershipService) RequestUpgrade(ctx context.Context, userID string, toClass models.MembershipClass) (*UpgradeResult, error) {
	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	fromClass := profile.MembershipClass
	if toClass.Rank() <= fromClass.Rank() {
		return nil, ErrInvalidUpgrade
	}

	pending, err := s.store.FindUpgrades(ctx, userID, models.UpgradeStatusPending)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return nil, ErrUpgradeConflict
	}

	upgrade := &models.ClassUpgrade{
		UserID:             userID,
		ProfileID:          profile.ID,
		FromClass:          fromClass,
		ToClass:            toClass,
		Status:             models.UpgradeStatusPending,
		PaymentsInNewClass: 0,
		RequestedAt:        s.now(),
	}

	err = s.store.Transaction(ctx, func(tx MembershipStore) error {
		if err := tx.CreateUpgrade(ctx, upgrade); err != nil {
			return err
		}
		return tx.UpdateProfile(ctx, profile.ID, ProfileUpdate{MembershipClass: &toClass})
	})
	if err != nil {
		return nil, err
	}

	return &UpgradeResult{
		UpgradeID: upgrade.ID,
		FromClass: fromClass,
		ToClass:   toClass,
		Message:   fmt.Sprintf("upgrade from class %s to %s requested, the new limit activates after %d payments", fromClass, toClass, models.UpgradeActivationPayments),
	}, nil
}

// OnMonthlyPayment advances any pending upgrade by one qualifying payment
// and activates it on the third. Called once per successful monthly
// contribution.
func (s *MembershipService) OnMonthlyPayment(ctx context.Context, userID string) (*PaymentOutcome, error) {
	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &PaymentOutcome{Success: false, Message: "member profile not found"}, nil
	}

	pending, err := s.store.FindUpgrades(ctx, userID, models.UpgradeStatusPending)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		upgrade := pending[0]
		newCount := upgrade.PaymentsInNewClass + 1

		// Counter and activation go out as one update so a pending
		// upgrade can never be left counted-but-unactivated.
		upd := UpgradeUpdate{PaymentsInNewClass: &newCount}
		activated := newCount >= models.UpgradeActivationPayments
		if activated {
			active := models.UpgradeStatusActive
			activatedAt := s.now()
			upd.Status = &active
			upd.ActivatedAt = &activatedAt
		}
		if err := s.store.UpdateUpgrade(ctx, upgrade.ID, upd); err != nil {
			return nil, err
		}

		if activated {
			return &PaymentOutcome{
				Success:          true,
				UpgradeActivated: true,
				Message:          fmt.Sprintf("upgrade to class %s activated, new limit available", upgrade.ToClass),
			}, nil
		}
	}

	return &PaymentOutcome{Success: true, Message: "payment processed"}, nil
}
