package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mutualaid_app/internal/models"
)

// GormMembershipStore is the database-backed MembershipStore
type GormMembershipStore struct {
	db *gorm.DB
}

// NewGormMembershipStore wraps a gorm handle as a MembershipStore
func NewGormMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{db: db}
}

func (s *GormMembershipStore) GetProfileByUserID(ctx context.Context, userID string) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (s *GormMembershipStore) UpdateProfile(ctx context.Context, profileID uint, upd ProfileUpdate) error {
	fields := map[string]interface{}{}
	if upd.MembershipClass != nil {
		fields["membership_class"] = *upd.MembershipClass
	}
	if upd.AccountStatus != nil {
		fields["account_status"] = *upd.AccountStatus
	}
	if upd.JoinFeePaid != nil {
		fields["join_fee_paid"] = *upd.JoinFeePaid
	}
	if upd.ConsecutiveMonthsPaid != nil {
		fields["consecutive_months_paid"] = *upd.ConsecutiveMonthsPaid
	}
	if upd.MonthsLate != nil {
		fields["months_late"] = *upd.MonthsLate
	}
	if upd.GatewaySubscriptionID != nil {
		fields["gateway_subscription_id"] = *upd.GatewaySubscriptionID
	}
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.MemberProfile{}).Where("id = ?", profileID).Updates(fields).Error
}

func (s *GormMembershipStore) CreateUpgrade(ctx context.Context, upgrade *models.ClassUpgrade) error {
	return s.db.WithContext(ctx).Create(upgrade).Error
}

func (s *GormMembershipStore) FindUpgrades(ctx context.Context, userID string, status models.UpgradeStatus) ([]models.ClassUpgrade, error) {
	var upgrades []models.ClassUpgrade
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("id desc").
		Find(&upgrades).Error
	if err != nil {
		return nil, err
	}
	return upgrades, nil
}

func (s *GormMembershipStore) UpdateUpgrade(ctx context.Context, upgradeID uint, upd UpgradeUpdate) error {
	fields := map[string]interface{}{}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.PaymentsInNewClass != nil {
		fields["payments_in_new_class"] = *upd.PaymentsInNewClass
	}
	if upd.ActivatedAt != nil {
		fields["activated_at"] = *upd.ActivatedAt
	}
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.ClassUpgrade{}).Where("id = ?", upgradeID).Updates(fields).Error
}

// Transaction runs fn against a store bound to a database transaction.
// Any error rolls back everything fn wrote.
func (s *GormMembershipStore) Transaction(ctx context.Context, fn func(MembershipStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormMembershipStore{db: tx})
	})
}
