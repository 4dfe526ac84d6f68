package payslip

import (
	"time"

	paysliperrors "go-tutorhub/internal/payslip/errors"
)

type Trigger string

const (
	TriggerSubmitForApproval Trigger = "submit_for_approval"
	TriggerFlagQuery         Trigger = "flag_query"
	TriggerMarkQueryHandled  Trigger = "mark_query_handled"
	TriggerApprove           Trigger = "approve"
	TriggerReject            Trigger = "reject"
	TriggerMarkPaid          Trigger = "mark_paid"
)

type transitionRule struct {
	From      []Status
	To        Status
	AdminOnly bool
}

// transitions is the complete state machine. Any (status, trigger) pair not
// listed here is rejected.
var transitions = map[Trigger]transitionRule{
	TriggerSubmitForApproval: {
		From: []Status{StatusDraft, StatusQueryHandled},
		To:   StatusStaffApproved,
	},
	TriggerFlagQuery: {
		From: []Status{StatusDraft, StatusQuery, StatusStaffApproved, StatusQueryHandled},
		To:   StatusQuery,
	},
	TriggerMarkQueryHandled: {
		From:      []Status{StatusQuery},
		To:        StatusQueryHandled,
		AdminOnly: true,
	},
	TriggerApprove: {
		From:      []Status{StatusStaffApproved},
		To:        StatusLocked,
		AdminOnly: true,
	},
	TriggerReject: {
		From:      []Status{StatusStaffApproved},
		To:        StatusDraft,
		AdminOnly: true,
	},
	TriggerMarkPaid: {
		From:      []Status{StatusLocked},
		To:        StatusPaid,
		AdminOnly: true,
	},
}

var AllTriggers = []Trigger{
	TriggerSubmitForApproval,
	TriggerFlagQuery,
	TriggerMarkQueryHandled,
	TriggerApprove,
	TriggerReject,
	TriggerMarkPaid,
}

func (t Trigger) Valid() bool {
	_, ok := transitions[t]
	return ok
}

// TargetStatus returns where the trigger leads, or false for unknown triggers.
func TargetStatus(t Trigger) (Status, bool) {
	rule, ok := transitions[t]
	return rule.To, ok
}

// TriggerForStatus maps a requested target status onto the trigger that
// produces it. Every target status is reached by exactly one trigger.
func TriggerForStatus(to Status) (Trigger, error) {
	for _, t := range AllTriggers {
		if transitions[t].To == to {
			return t, nil
		}
	}
	return "", paysliperrors.ErrInvalidTransition
}

// Transition validates and applies trigger to p, appending one history entry.
// On error p is left untouched.
func Transition(p *Payslip, trigger Trigger, actor Actor, now time.Time) error {
	if err := AuthorizeTransition(actor, p, trigger); err != nil {
		return err
	}

	rule := transitions[trigger]
	p.Status = rule.To
	p.History = append(p.History, HistoryEntry{
		Status:    rule.To,
		Timestamp: now.UTC(),
		UpdatedBy: actor.ID,
	})
	return nil
}

func allowedFrom(rule transitionRule, s Status) bool {
	for _, from := range rule.From {
		if from == s {
			return true
		}
	}
	return false
}
