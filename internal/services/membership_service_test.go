package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mutualaid_app/internal/models"
)

// fakeMembershipStore is an in-memory MembershipStore for engine tests
type fakeMembershipStore struct {
	profiles           map[string]*models.MemberProfile
	upgrades           []*models.ClassUpgrade
	nextID             uint
	upgradeUpdateCalls int
}

func newFakeMembershipStore(profiles ...*models.MemberProfile) *fakeMembershipStore {
	s := &fakeMembershipStore{profiles: map[string]*models.MemberProfile{}, nextID: 1}
	for _, p := range profiles {
		if p.ID == 0 {
			p.ID = s.nextID
			s.nextID++
		}
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *fakeMembershipStore) GetProfileByUserID(_ context.Context, userID string) (*models.MemberProfile, error) {
	return s.profiles[userID], nil
}

func (s *fakeMembershipStore) UpdateProfile(_ context.Context, profileID uint, upd ProfileUpdate) error {
	for _, p := range s.profiles {
		if p.ID != profileID {
			continue
		}
		if upd.MembershipClass != nil {
			p.MembershipClass = *upd.MembershipClass
		}
		if upd.AccountStatus != nil {
			p.AccountStatus = *upd.AccountStatus
		}
		if upd.JoinFeePaid != nil {
			p.JoinFeePaid = *upd.JoinFeePaid
		}
		if upd.ConsecutiveMonthsPaid != nil {
			p.ConsecutiveMonthsPaid = *upd.ConsecutiveMonthsPaid
		}
		if upd.MonthsLate != nil {
			p.MonthsLate = *upd.MonthsLate
		}
		return nil
	}
	return errors.New("profile not found")
}

func (s *fakeMembershipStore) CreateUpgrade(_ context.Context, upgrade *models.ClassUpgrade) error {
	upgrade.ID = s.nextID
	s.nextID++
	s.upgrades = append(s.upgrades, upgrade)
	return nil
}

func (s *fakeMembershipStore) FindUpgrades(_ context.Context, userID string, status models.UpgradeStatus) ([]models.ClassUpgrade, error) {
	var out []models.ClassUpgrade
	for _, u := range s.upgrades {
		if u.UserID == userID && u.Status == status {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeMembershipStore) UpdateUpgrade(_ context.Context, upgradeID uint, upd UpgradeUpdate) error {
	s.upgradeUpdateCalls++
	for _, u := range s.upgrades {
		if u.ID != upgradeID {
			continue
		}
		if upd.Status != nil {
			u.Status = *upd.Status
		}
		if upd.PaymentsInNewClass != nil {
			u.PaymentsInNewClass = *upd.PaymentsInNewClass
		}
		if upd.ActivatedAt != nil {
			u.ActivatedAt = upd.ActivatedAt
		}
		return nil
	}
	return errors.New("upgrade not found")
}

func (s *fakeMembershipStore) Transaction(_ context.Context, fn func(MembershipStore) error) error {
	return fn(s)
}

func activeProfile(userID string, class models.MembershipClass) *models.MemberProfile {
	return &models.MemberProfile{
		UserID:                userID,
		MembershipClass:       class,
		AccountStatus:         models.AccountStatusActive,
		JoinFeePaid:           true,
		ConsecutiveMonthsPaid: 8,
		MonthsLate:            0,
	}
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name       string
		profile    *models.MemberProfile
		wantOK     bool
		wantReason string
		wantLimit  float64
	}{
		{
			name:       "no profile",
			profile:    nil,
			wantOK:     false,
			wantReason: ReasonProfileNotFound,
		},
		{
			name: "join fee unpaid overrides everything else",
			profile: &models.MemberProfile{
				UserID:                "u1",
				MembershipClass:       models.MembershipClassD,
				AccountStatus:         models.AccountStatusActive,
				JoinFeePaid:           false,
				ConsecutiveMonthsPaid: 24,
			},
			wantOK:     false,
			wantReason: ReasonJoinFeeUnpaid,
		},
		{
			name: "five paid months is not enough",
			profile: &models.MemberProfile{
				UserID:                "u1",
				MembershipClass:       models.MembershipClassA,
				AccountStatus:         models.AccountStatusActive,
				JoinFeePaid:           true,
				ConsecutiveMonthsPaid: 5,
			},
			wantOK:     false,
			wantReason: ReasonInsufficientPaidMonths,
		},
		{
			name: "three months late",
			profile: &models.MemberProfile{
				UserID:                "u1",
				MembershipClass:       models.MembershipClassB,
				AccountStatus:         models.AccountStatusActive,
				JoinFeePaid:           true,
				ConsecutiveMonthsPaid: 10,
				MonthsLate:            3,
			},
			wantOK:     false,
			wantReason: ReasonInArrears,
		},
		{
			name: "paused account",
			profile: &models.MemberProfile{
				UserID:                "u1",
				MembershipClass:       models.MembershipClassB,
				AccountStatus:         models.AccountStatusPaused,
				JoinFeePaid:           true,
				ConsecutiveMonthsPaid: 10,
			},
			wantOK:     false,
			wantReason: ReasonAccountNotActive,
		},
		{
			name: "two months late is tolerated",
			profile: &models.MemberProfile{
				UserID:                "u1",
				MembershipClass:       models.MembershipClassA,
				AccountStatus:         models.AccountStatusActive,
				JoinFeePaid:           true,
				ConsecutiveMonthsPaid: 6,
				MonthsLate:            2,
			},
			wantOK:    true,
			wantLimit: 2000,
		},
		{
			name:      "class C limit",
			profile:   activeProfile("u1", models.MembershipClassC),
			wantOK:    true,
			wantLimit: 5000,
		},
		{
			name:      "class D limit",
			profile:   activeProfile("u1", models.MembershipClassD),
			wantOK:    true,
			wantLimit: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeMembershipStore()
			if tt.profile != nil {
				store = newFakeMembershipStore(tt.profile)
			}
			svc := NewMembershipService(store, DefaultClassTariffs())

			result, err := svc.CheckEligibility(context.Background(), "u1")
			if err != nil {
				t.Fatalf("CheckEligibility returned error: %v", err)
			}
			if result.Eligible != tt.wantOK {
				t.Errorf("Eligible = %v; want %v (reason %q)", result.Eligible, tt.wantOK, result.Reason)
			}
			if !tt.wantOK && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q; want %q", result.Reason, tt.wantReason)
			}
			if tt.wantOK && result.Limit != tt.wantLimit {
				t.Errorf("Limit = %v; want %v", result.Limit, tt.wantLimit)
			}
		})
	}
}

func TestRequestUpgradeValidation(t *testing.T) {
	tests := []struct {
		name    string
		from    models.MembershipClass
		to      models.MembershipClass
		wantErr error
	}{
		{name: "downgrade rejected", from: models.MembershipClassC, to: models.MembershipClassB, wantErr: ErrInvalidUpgrade},
		{name: "same class rejected", from: models.MembershipClassB, to: models.MembershipClassB, wantErr: ErrInvalidUpgrade},
		{name: "upgrade allowed", from: models.MembershipClassA, to: models.MembershipClassB, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeMembershipStore(activeProfile("u1", tt.from))
			svc := NewMembershipService(store, DefaultClassTariffs())

			_, err := svc.RequestUpgrade(context.Background(), "u1", tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequestUpgrade(%s -> %s) error = %v; want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestRequestUpgradeAppliesClassImmediately(t *testing.T) {
	profile := activeProfile("u1", models.MembershipClassA)
	store := newFakeMembershipStore(profile)
	svc := NewMembershipService(store, DefaultClassTariffs())

	result, err := svc.RequestUpgrade(context.Background(), "u1", models.MembershipClassC)
	if err != nil {
		t.Fatalf("RequestUpgrade returned error: %v", err)
	}
	if result.FromClass != models.MembershipClassA || result.ToClass != models.MembershipClassC {
		t.Errorf("result classes = %s -> %s; want A -> C", result.FromClass, result.ToClass)
	}
	if profile.MembershipClass != models.MembershipClassC {
		t.Errorf("profile class = %s; want C applied immediately", profile.MembershipClass)
	}
	if len(store.upgrades) != 1 {
		t.Fatalf("upgrade count = %d; want 1", len(store.upgrades))
	}
	up := store.upgrades[0]
	if up.Status != models.UpgradeStatusPending || up.PaymentsInNewClass != 0 {
		t.Errorf("upgrade = status %s, payments %d; want pending, 0", up.Status, up.PaymentsInNewClass)
	}
}

func TestRequestUpgradeConflict(t *testing.T) {
	store := newFakeMembershipStore(activeProfile("u1", models.MembershipClassA))
	svc := NewMembershipService(store, DefaultClassTariffs())

	if _, err := svc.RequestUpgrade(context.Background(), "u1", models.MembershipClassB); err != nil {
		t.Fatalf("first RequestUpgrade returned error: %v", err)
	}
	_, err := svc.RequestUpgrade(context.Background(), "u1", models.MembershipClassC)
	if !errors.Is(err, ErrUpgradeConflict) {
		t.Errorf("second RequestUpgrade error = %v; want %v", err, ErrUpgradeConflict)
	}
}

func TestRequestUpgradeMissingProfile(t *testing.T) {
	svc := NewMembershipService(newFakeMembershipStore(), DefaultClassTariffs())
	_, err := svc.RequestUpgrade(context.Background(), "ghost", models.MembershipClassB)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("RequestUpgrade error = %v; want %v", err, ErrProfileNotFound)
	}
}

func TestOnMonthlyPaymentActivatesOnThird(t *testing.T) {
	store := newFakeMembershipStore(activeProfile("u1", models.MembershipClassA))
	svc := NewMembershipService(store, DefaultClassTariffs())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	if _, err := svc.RequestUpgrade(context.Background(), "u1", models.MembershipClassB); err != nil {
		t.Fatalf("RequestUpgrade returned error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		outcome, err := svc.OnMonthlyPayment(context.Background(), "u1")
		if err != nil {
			t.Fatalf("payment %d returned error: %v", i, err)
		}
		if !outcome.Success {
			t.Fatalf("payment %d not successful", i)
		}
		wantActivated := i == 3
		if outcome.UpgradeActivated != wantActivated {
			t.Errorf("payment %d: UpgradeActivated = %v; want %v", i, outcome.UpgradeActivated, wantActivated)
		}
	}

	up := store.upgrades[0]
	if up.Status != models.UpgradeStatusActive {
		t.Errorf("upgrade status = %s; want active", up.Status)
	}
	if up.PaymentsInNewClass != 3 {
		t.Errorf("payments in new class = %d; want 3", up.PaymentsInNewClass)
	}
	if up.ActivatedAt == nil {
		t.Error("ActivatedAt not stamped on activation")
	}
}

func TestOnMonthlyPaymentActivationIsSingleUpdate(t *testing.T) {
	store := newFakeMembershipStore(activeProfile("u1", models.MembershipClassA))
	svc := NewMembershipService(store, DefaultClassTariffs())

	if _, err := svc.RequestUpgrade(context.Background(), "u1", models.MembershipClassB); err != nil {
		t.Fatalf("RequestUpgrade returned error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		before := store.upgradeUpdateCalls
		if _, err := svc.OnMonthlyPayment(context.Background(), "u1"); err != nil {
			t.Fatalf("payment %d returned error: %v", i, err)
		}
		if got := store.upgradeUpdateCalls - before; got != 1 {
			t.Errorf("payment %d issued %d upgrade updates; want 1", i, got)
		}
	}

	// The activating payment must land counter, status and timestamp together.
	up := store.upgrades[0]
	if up.PaymentsInNewClass != 3 || up.Status != models.UpgradeStatusActive || up.ActivatedAt == nil {
		t.Errorf("upgrade = count %d, status %s, activatedAt %v; want 3, active, stamped",
			up.PaymentsInNewClass, up.Status, up.ActivatedAt)
	}
}

func TestOnMonthlyPaymentWithoutPendingUpgrade(t *testing.T) {
	store := newFakeMembershipStore(activeProfile("u1", models.MembershipClassA))
	svc := NewMembershipService(store, DefaultClassTariffs())

	outcome, err := svc.OnMonthlyPayment(context.Background(), "u1")
	if err != nil {
		t.Fatalf("OnMonthlyPayment returned error: %v", err)
	}
	if !outcome.Success || outcome.UpgradeActivated {
		t.Errorf("outcome = %+v; want plain success without activation", outcome)
	}
}

func TestOnMonthlyPaymentMissingProfile(t *testing.T) {
	svc := NewMembershipService(newFakeMembershipStore(), DefaultClassTariffs())

	outcome, err := svc.OnMonthlyPayment(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("OnMonthlyPayment returned error: %v", err)
	}
	if outcome.Success {
		t.Error("outcome.Success = true; want not-found outcome")
	}
}
