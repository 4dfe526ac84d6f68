package events

import "time"

const (
	PayslipStatusChangedTopic     = "tutorhub.payslip.status.v1"
	PayslipStatusChangedEventType = "payslip_status_changed"
)

// PayslipStatusChangedEvent is published once per applied transition.
type PayslipStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	PayslipID  string    `json:"payslip_id"`
	UserID     string    `json:"user_id"`
	PayPeriod  string    `json:"pay_period"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}
