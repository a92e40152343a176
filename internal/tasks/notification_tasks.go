package tasks

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mutualaid_app/internal/models"
	"mutualaid_app/internal/services"
)

// SendReminderTaskDef delivers an overdue-installment reminder by email
type SendReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendReminderTaskDef) TaskID() string {
	return "send_reminder"
}

// HandleExecution sends the reminder email to the member
func (t *SendReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	userID, ok := task.Arguments["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("send_reminder: missing user_id argument")
	}

	var profile models.MemberProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("send_reminder: load profile for %s: %w", userID, err)
	}
	if profile.Email == "" {
		return map[string]interface{}{
			"status": "skipped",
			"reason": "profile has no email",
		}, nil
	}

	overdueCount := 0
	if v, ok := task.Arguments["overdue_count"].(float64); ok {
		overdueCount = int(v)
	}
	totalOverdue := 0.0
	if v, ok := task.Arguments["total_overdue"].(float64); ok {
		totalOverdue = v
	}

	subject := "Repayment installment overdue"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have %d overdue installment(s) on your repayment plan, "+
			"totaling %.2f. Please settle them as soon as possible to keep "+
			"your account in good standing.\n\n"+
			"Thank you.",
		profile.FullName, overdueCount, totalOverdue,
	)

	emailService := services.NewEmailService()
	if err := emailService.SendEmail([]string{profile.Email}, subject, body); err != nil {
		return nil, fmt.Errorf("send_reminder: %w", err)
	}

	return map[string]interface{}{
		"status": "success",
		"sent":   profile.Email,
	}, nil
}

// SendReminderTask is the singleton instance
var SendReminderTask = &SendReminderTaskDef{}
