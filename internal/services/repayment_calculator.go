package services

import (
	"math"
	"time"

	"mutualaid_app/internal/models"
)

// AdministrativeFeeRate is the fixed fee applied to every approved amount
const AdministrativeFeeRate = 0.02

// MaxInstallments caps how far a repayment may be stretched
const MaxInstallments = 12

// InstallmentEntry is one line of a computed repayment schedule
type InstallmentEntry struct {
	InstallmentNumber int                  `json:"installment_number"`
	Amount            float64              `json:"amount"`
	DueDate           time.Time            `json:"due_date"`
	Status            models.PaymentStatus `json:"status"`
}

// RepaymentPlan is the fee-adjusted schedule for an approved amount.
// The calculator never persists anything; callers store the plan.
type RepaymentPlan struct {
	ApprovedAmount    float64            `json:"approved_amount"`
	AdministrativeFee float64            `json:"administrative_fee"`
	TotalToRepay      float64            `json:"total_to_repay"`
	Installments      int                `json:"installments"`
	InstallmentAmount float64            `json:"installment_amount"`
	Schedule          []InstallmentEntry `json:"schedule"`
	FirstDueDate      time.Time          `json:"first_due_date"`
	LastDueDate       time.Time          `json:"last_due_date"`
}

// OverdueEntry annotates one overdue installment with how late it is
type OverdueEntry struct {
	InstallmentID     uint      `json:"installment_id"`
	InstallmentNumber int       `json:"installment_number"`
	Amount            float64   `json:"amount"`
	DueDate           time.Time `json:"due_date"`
	DaysOverdue       int       `json:"days_overdue"`
}

// OverdueReport summarizes the overdue portion of a set of installments
type OverdueReport struct {
	HasOverdue         bool           `json:"has_overdue"`
	OverdueCount       int            `json:"overdue_count"`
	Overdue            []OverdueEntry `json:"overdue_installments"`
	TotalOverdueAmount float64        `json:"total_overdue_amount"`
}

// CalculateRepaymentPlan computes the repayment schedule for an approved
// amount: 2% administrative fee, equal installments rounded to cents, due
// dates advancing one calendar month per installment starting one month
// from now.
func CalculateRepaymentPlan(approvedAmount float64, installments int, now time.Time) (*RepaymentPlan, error) {
	if installments < 1 || installments > MaxInstallments {
		return nil, ErrInvalidInstallments
	}

	totalToRepay := approvedAmount * (1 + AdministrativeFeeRate)
	installmentAmount := totalToRepay / float64(installments)

	schedule := make([]InstallmentEntry, 0, installments)
	for i := 1; i <= installments; i++ {
		schedule = append(schedule, InstallmentEntry{
			InstallmentNumber: i,
			Amount:            round2(installmentAmount),
			DueDate:           addMonths(now, i),
			Status:            models.PaymentStatusPending,
		})
	}

	return &RepaymentPlan{
		ApprovedAmount:    approvedAmount,
		AdministrativeFee: round2(approvedAmount * AdministrativeFeeRate),
		TotalToRepay:      round2(totalToRepay),
		Installments:      installments,
		InstallmentAmount: round2(installmentAmount),
		Schedule:          schedule,
		FirstDueDate:      schedule[0].DueDate,
		LastDueDate:       schedule[len(schedule)-1].DueDate,
	}, nil
}

// CheckOverdueInstallments scans unpaid installments and reports the
// ones whose due date has passed. Rows the worker already marked overdue
// stay in the report until they are paid. Comparison is date-only; an
// installment due today is not overdue.
func CheckOverdueInstallments(installments []models.RepaymentInstallment, today time.Time) *OverdueReport {
	report := &OverdueReport{Overdue: []OverdueEntry{}}
	todayDate := dateOnly(today)

	for _, inst := range installments {
		if inst.Status != models.PaymentStatusPending && inst.Status != models.PaymentStatusOverdue {
			continue
		}
		dueDate := dateOnly(inst.DueDate)
		if !dueDate.Before(todayDate) {
			continue
		}
		days := int(math.Round(todayDate.Sub(dueDate).Hours() / 24))
		report.Overdue = append(report.Overdue, OverdueEntry{
			InstallmentID:     inst.ID,
			InstallmentNumber: inst.InstallmentNumber,
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			DaysOverdue:       days,
		})
		report.TotalOverdueAmount += inst.Amount
	}

	report.OverdueCount = len(report.Overdue)
	report.HasOverdue = report.OverdueCount > 0
	report.TotalOverdueAmount = round2(report.TotalOverdueAmount)
	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// addMonths advances t by the given number of calendar months, clamping
// the day to the target month's length (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
