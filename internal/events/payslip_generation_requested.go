package events

import "time"

const (
	PayslipGenerationRequestedTopic     = "tutorhub.payslip.generation.requested.v1"
	PayslipGenerationRequestedEventType = "payslip_generation_requested"
)

// PayslipGenerationRequestedEvent asks for the current-period payslip of
// UserID to be generated on behalf of RequestedBy.
type PayslipGenerationRequestedEvent struct {
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
