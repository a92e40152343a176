package services

import (
	"errors"
	"testing"
	"time"

	"mutualaid_app/internal/models"
)

func TestCalculateRepaymentPlan(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	plan, err := CalculateRepaymentPlan(1000, 12, now)
	if err != nil {
		t.Fatalf("CalculateRepaymentPlan returned error: %v", err)
	}

	if plan.TotalToRepay != 1020.00 {
		t.Errorf("TotalToRepay = %v; want 1020.00", plan.TotalToRepay)
	}
	if plan.AdministrativeFee != 20.00 {
		t.Errorf("AdministrativeFee = %v; want 20.00", plan.AdministrativeFee)
	}
	if plan.InstallmentAmount != 85.00 {
		t.Errorf("InstallmentAmount = %v; want 85.00", plan.InstallmentAmount)
	}
	if len(plan.Schedule) != 12 {
		t.Fatalf("schedule length = %d; want 12", len(plan.Schedule))
	}

	for i, entry := range plan.Schedule {
		if entry.InstallmentNumber != i+1 {
			t.Errorf("entry %d: number = %d; want %d", i, entry.InstallmentNumber, i+1)
		}
		if entry.Status != models.PaymentStatusPending {
			t.Errorf("entry %d: status = %s; want pending", i, entry.Status)
		}
		want := time.Date(2026, time.Month(1+i+1), 15, 10, 30, 0, 0, time.UTC)
		if !entry.DueDate.Equal(want) {
			t.Errorf("entry %d: due date = %v; want %v", i, entry.DueDate, want)
		}
	}

	if !plan.FirstDueDate.Equal(plan.Schedule[0].DueDate) {
		t.Errorf("FirstDueDate = %v; want %v", plan.FirstDueDate, plan.Schedule[0].DueDate)
	}
	if !plan.LastDueDate.Equal(plan.Schedule[11].DueDate) {
		t.Errorf("LastDueDate = %v; want %v", plan.LastDueDate, plan.Schedule[11].DueDate)
	}

	// Rounded installments must still sum close to the rounded total.
	var sum float64
	for _, entry := range plan.Schedule {
		sum += entry.Amount
	}
	if diff := sum - plan.TotalToRepay; diff > 0.12 || diff < -0.12 {
		t.Errorf("installment sum %v deviates from total %v by %v", sum, plan.TotalToRepay, diff)
	}
}

func TestCalculateRepaymentPlanInstallmentBounds(t *testing.T) {
	now := time.Now()
	for _, n := range []int{0, -1, 13, 100} {
		if _, err := CalculateRepaymentPlan(100, n, now); !errors.Is(err, ErrInvalidInstallments) {
			t.Errorf("installments=%d: error = %v; want %v", n, err, ErrInvalidInstallments)
		}
	}
	if _, err := CalculateRepaymentPlan(100, 1, now); err != nil {
		t.Errorf("installments=1: unexpected error %v", err)
	}
	if _, err := CalculateRepaymentPlan(100, 12, now); err != nil {
		t.Errorf("installments=12: unexpected error %v", err)
	}
}

func TestCalculateRepaymentPlanClampsMonthEnd(t *testing.T) {
	now := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)

	plan, err := CalculateRepaymentPlan(600, 3, now)
	if err != nil {
		t.Fatalf("CalculateRepaymentPlan returned error: %v", err)
	}

	wants := []time.Time{
		time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC), // February clamps
		time.Date(2025, 3, 31, 8, 0, 0, 0, time.UTC), // day restored where valid
		time.Date(2025, 4, 30, 8, 0, 0, 0, time.UTC),
	}
	for i, want := range wants {
		if got := plan.Schedule[i].DueDate; !got.Equal(want) {
			t.Errorf("entry %d: due date = %v; want %v", i, got, want)
		}
	}
}

func TestCheckOverdueInstallments(t *testing.T) {
	today := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)

	installments := []models.RepaymentInstallment{
		{ID: 1, InstallmentNumber: 1, Amount: 85, DueDate: today.AddDate(0, 0, -10), Status: models.PaymentStatusPending},
		{ID: 2, InstallmentNumber: 2, Amount: 85, DueDate: today.AddDate(0, 0, 10), Status: models.PaymentStatusPending},
		{ID: 3, InstallmentNumber: 3, Amount: 85, DueDate: today.AddDate(0, 0, -40), Status: models.PaymentStatusPaid},
	}

	report := CheckOverdueInstallments(installments, today)

	if !report.HasOverdue {
		t.Fatal("HasOverdue = false; want true")
	}
	if report.OverdueCount != 1 {
		t.Fatalf("OverdueCount = %d; want 1", report.OverdueCount)
	}
	entry := report.Overdue[0]
	if entry.InstallmentNumber != 1 {
		t.Errorf("overdue installment number = %d; want 1", entry.InstallmentNumber)
	}
	if entry.DaysOverdue != 10 {
		t.Errorf("DaysOverdue = %d; want 10", entry.DaysOverdue)
	}
	if report.TotalOverdueAmount != 85 {
		t.Errorf("TotalOverdueAmount = %v; want 85", report.TotalOverdueAmount)
	}
}

func TestCheckOverdueInstallmentsKeepsStoredOverdue(t *testing.T) {
	today := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)

	// The worker stores the overdue status on unpaid rows; they must keep
	// appearing in member reports until they are paid.
	installments := []models.RepaymentInstallment{
		{ID: 1, InstallmentNumber: 1, Amount: 85, DueDate: today.AddDate(0, 0, -10), Status: models.PaymentStatusOverdue},
		{ID: 2, InstallmentNumber: 2, Amount: 85, DueDate: today.AddDate(0, 0, -3), Status: models.PaymentStatusPending},
	}

	report := CheckOverdueInstallments(installments, today)

	if report.OverdueCount != 2 {
		t.Fatalf("OverdueCount = %d; want 2", report.OverdueCount)
	}
	if report.Overdue[0].DaysOverdue != 10 {
		t.Errorf("stored-overdue DaysOverdue = %d; want 10", report.Overdue[0].DaysOverdue)
	}
	if report.TotalOverdueAmount != 170 {
		t.Errorf("TotalOverdueAmount = %v; want 170", report.TotalOverdueAmount)
	}
}

func TestCheckOverdueInstallmentsDueTodayNotOverdue(t *testing.T) {
	today := time.Date(2026, 6, 20, 23, 59, 0, 0, time.UTC)
	installments := []models.RepaymentInstallment{
		{ID: 1, InstallmentNumber: 1, Amount: 50, DueDate: time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), Status: models.PaymentStatusPending},
	}

	report := CheckOverdueInstallments(installments, today)
	if report.HasOverdue {
		t.Errorf("installment due today reported overdue: %+v", report.Overdue)
	}
}

func TestCheckOverdueInstallmentsEmpty(t *testing.T) {
	report := CheckOverdueInstallments(nil, time.Now())
	if report.HasOverdue || report.OverdueCount != 0 || report.TotalOverdueAmount != 0 {
		t.Errorf("empty scan = %+v; want zero report", report)
	}
}
