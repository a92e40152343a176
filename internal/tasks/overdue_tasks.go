package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

// ScanOverdueInstallmentsTaskDef is the recurring scan that flips pending
// installments past their due date to overdue, bumps the member's late
// counter and enqueues a reminder for each affected member
type ScanOverdueInstallmentsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *ScanOverdueInstallmentsTaskDef) TaskID() string {
	return "scan_overdue_installments"
}

// HandleExecution scans all active repayment plans for overdue installments
func (t *ScanOverdueInstallmentsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	now := time.Now()

	var repayments []models.Repayment
	err := db.WithContext(ctx).
		Preload("InstallmentRows").
		Where("status = ?", models.RepaymentStatusActive).
		Find(&repayments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active repayments: %w", err)
	}

	flipped := 0
	remindersQueued := 0

	for _, repayment := range repayments {
		report := services.CheckOverdueInstallments(repayment.InstallmentRows, now)
		if !report.HasOverdue {
			continue
		}

		newlyOverdue := []uint{}
		for _, entry := range report.Overdue {
			newlyOverdue = append(newlyOverdue, entry.InstallmentID)
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.RepaymentInstallment{}).
				Where("id IN ? AND status = ?", newlyOverdue, models.PaymentStatusPending).
				Update("status", models.PaymentStatusOverdue)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			flipped += int(res.RowsAffected)

			err := tx.Model(&models.MemberProfile{}).
				Where("id = ?", repayment.ProfileID).
				Update("months_late", gorm.Expr("months_late + ?", res.RowsAffected)).Error
			if err != nil {
				return err
			}

			reminder, err := BuildScheduledTask(
				SendReminderTask.TaskID(),
				map[string]interface{}{
					"user_id":       repayment.UserID,
					"repayment_id":  repayment.ID,
					"overdue_count": report.OverdueCount,
					"total_overdue": report.TotalOverdueAmount,
				},
				time.Now(),
				nil,
				models.ScheduledTaskTypeOneTime,
				3,
			)
			if err != nil {
				return err
			}
			if err := tx.Create(reminder).Error; err != nil {
				return err
			}
			remindersQueued++
			return nil
		})
		if err != nil {
			log.Printf("[Task: scan_overdue_installments] repayment %d: %v", repayment.ID, err)
			continue
		}
	}

	return map[string]interface{}{
		"status":            "success",
		"plans_scanned":     len(repayments),
		"installments_late": flipped,
		"reminders_queued":  remindersQueued,
	}, nil
}

// ScanOverdueInstallmentsTask is the singleton instance
var ScanOverdueInstallmentsTask = &ScanOverdueInstallmentsTaskDef{}
