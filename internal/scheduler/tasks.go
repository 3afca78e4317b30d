package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCommissionReminder = "billing.commission.reminder"

// CommissionReminderPayload identifies the professional to nudge about
// pending commissions.
type CommissionReminderPayload struct {
	ProfessionalID string `json:"professionalId"`
	Email          string `json:"email"`
}

func NewCommissionReminderTask(payload CommissionReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionReminder, data), nil
}

func ParseCommissionReminderPayload(task *asynq.Task) (CommissionReminderPayload, error) {
	var payload CommissionReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CommissionReminderPayload{}, err
	}
	return payload, nil
}
