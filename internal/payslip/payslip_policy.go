package payslip

import (
	paysliperrors "go-tutorhub/internal/payslip/errors"
)

// AdminCapability is the permission that grants payroll-administrator rights.
const AdminCapability = "payslip:admin"

type Operation string

const (
	OpView         Operation = "view"
	OpManageItems  Operation = "manage_items"
	OpAddQuery     Operation = "add_query"
	OpUpdateQuery  Operation = "update_query"
	OpResolveQuery Operation = "resolve_query"
	OpDeleteQuery  Operation = "delete_query"
)

// Authorize is the only place that decides whether actor may perform op on p.
func Authorize(actor Actor, p *Payslip, op Operation) error {
	if p == nil {
		return paysliperrors.ErrPayslipNotFound
	}
	if !actor.Admin && !actor.Owns(p) {
		return paysliperrors.ErrForbidden
	}
	if op == OpView {
		return nil
	}
	if p.Status.Final() {
		return paysliperrors.ErrPayslipImmutable
	}

	switch op {
	case OpManageItems:
		if actor.Admin {
			return nil
		}
		if p.Status == StatusDraft || p.Status == StatusQueryHandled {
			return nil
		}
		return paysliperrors.ErrItemsNotEditable
	case OpAddQuery, OpUpdateQuery, OpResolveQuery, OpDeleteQuery:
		return nil
	default:
		return paysliperrors.ErrForbidden
	}
}

// AuthorizeTransition checks visibility, then the state table, then the
// actor requirement of the rule.
func AuthorizeTransition(actor Actor, p *Payslip, trigger Trigger) error {
	if p == nil {
		return paysliperrors.ErrPayslipNotFound
	}
	if !actor.Admin && !actor.Owns(p) {
		return paysliperrors.ErrForbidden
	}

	rule, ok := transitions[trigger]
	if !ok || !allowedFrom(rule, p.Status) {
		return paysliperrors.ErrInvalidTransition
	}
	if rule.AdminOnly && !actor.Admin {
		return paysliperrors.ErrForbidden
	}
	return nil
}

func CanManageItems(actor Actor, p *Payslip) bool {
	return Authorize(actor, p, OpManageItems) == nil
}

func CanQuery(actor Actor, p *Payslip) bool {
	return Authorize(actor, p, OpAddQuery) == nil
}

func CanSubmit(actor Actor, p *Payslip) bool {
	return AuthorizeTransition(actor, p, TriggerSubmitForApproval) == nil
}

func CanApprove(actor Actor, p *Payslip) bool {
	return AuthorizeTransition(actor, p, TriggerApprove) == nil
}

func CanReject(actor Actor, p *Payslip) bool {
	return AuthorizeTransition(actor, p, TriggerReject) == nil
}

func CanMarkHandled(actor Actor, p *Payslip) bool {
	return AuthorizeTransition(actor, p, TriggerMarkQueryHandled) == nil
}

func CanMarkPaid(actor Actor, p *Payslip) bool {
	return AuthorizeTransition(actor, p, TriggerMarkPaid) == nil
}

// AvailableTriggers lists the transitions actor may fire right now.
func AvailableTriggers(actor Actor, p *Payslip) []Trigger {
	out := make([]Trigger, 0, len(AllTriggers))
	for _, t := range AllTriggers {
		if AuthorizeTransition(actor, p, t) == nil {
			out = append(out, t)
		}
	}
	return out
}
