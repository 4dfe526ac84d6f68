package payslip

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paysliperrors "go-tutorhub/internal/payslip/errors"
)

type ItemKind string

const (
	KindEarning      ItemKind = "earning"
	KindBonus        ItemKind = "bonus"
	KindMiscEarning  ItemKind = "misc_earning"
	KindDeduction    ItemKind = "deduction"
	GeneralQueryItem          = "general-payslip"
)

var routeKinds = map[string]ItemKind{
	"earnings":      KindEarning,
	"bonuses":       KindBonus,
	"misc-earnings": KindMiscEarning,
	"deductions":    KindDeduction,
}

// ParseRouteKind maps a URL collection segment onto an item kind.
func ParseRouteKind(segment string) (ItemKind, error) {
	kind, ok := routeKinds[segment]
	if !ok {
		return "", paysliperrors.ErrInvalidItemKind
	}
	return kind, nil
}

func (k ItemKind) Valid() bool {
	switch k {
	case KindEarning, KindBonus, KindMiscEarning, KindDeduction:
		return true
	}
	return false
}

type LineItemInput struct {
	Description string
	Amount      decimal.Decimal
}

type LineItemPatch struct {
	Description *string
	Amount      *decimal.Decimal
}

type EarningPatch struct {
	Description *string
	BaseRate    *decimal.Decimal
	Hours       *decimal.Decimal
	Rate        *decimal.Decimal
	Date        *string
}

func (p *Payslip) items(kind ItemKind) (*[]LineItem, error) {
	switch kind {
	case KindBonus:
		return &p.Bonuses, nil
	case KindMiscEarning:
		return &p.MiscEarnings, nil
	case KindDeduction:
		return &p.Deductions, nil
	case KindEarning:
		return nil, paysliperrors.ErrEarningsReadOnly
	default:
		return nil, paysliperrors.ErrInvalidItemKind
	}
}

// HasLineItem reports whether an item of kind with id exists on p.
func (p *Payslip) HasLineItem(kind ItemKind, id uuid.UUID) bool {
	if kind == KindEarning {
		for _, e := range p.Earnings {
			if e.ID == id {
				return true
			}
		}
		return false
	}
	items, err := p.items(kind)
	if err != nil {
		return false
	}
	return indexOf(*items, id) >= 0
}

func indexOf(items []LineItem, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func earningIndex(earnings []Earning, id uuid.UUID) int {
	for i := range earnings {
		if earnings[i].ID == id {
			return i
		}
	}
	return -1
}

func negative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}

// AddLineItem appends a new bonus, misc earning or deduction.
func AddLineItem(p *Payslip, kind ItemKind, in LineItemInput, id uuid.UUID) (LineItem, error) {
	items, err := p.items(kind)
	if err != nil {
		return LineItem{}, err
	}
	if in.Amount.IsNegative() {
		return LineItem{}, paysliperrors.ErrInvalidMoneyValue
	}

	item := LineItem{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
	}
	*items = append(*items, item)
	return item, nil
}

func UpdateLineItem(p *Payslip, kind ItemKind, id uuid.UUID, patch LineItemPatch) error {
	items, err := p.items(kind)
	if err != nil {
		return err
	}
	idx := indexOf(*items, id)
	if idx < 0 {
		return paysliperrors.ErrLineItemNotFound
	}
	if negative(patch.Amount) {
		return paysliperrors.ErrInvalidMoneyValue
	}

	item := &(*items)[idx]
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		item.Amount = *patch.Amount
	}
	return nil
}

// RemoveLineItem deletes the item. Queries that reference it are kept.
func RemoveLineItem(p *Payslip, kind ItemKind, id uuid.UUID) error {
	items, err := p.items(kind)
	if err != nil {
		return err
	}
	idx := indexOf(*items, id)
	if idx < 0 {
		return paysliperrors.ErrLineItemNotFound
	}
	*items = append((*items)[:idx], (*items)[idx+1:]...)
	return nil
}

// UpdateEarning patches an earning and re-derives its total.
func UpdateEarning(p *Payslip, id uuid.UUID, patch EarningPatch) error {
	idx := earningIndex(p.Earnings, id)
	if idx < 0 {
		return paysliperrors.ErrLineItemNotFound
	}
	if negative(patch.BaseRate) || negative(patch.Hours) || negative(patch.Rate) {
		return paysliperrors.ErrInvalidMoneyValue
	}
	if patch.Date != nil && *patch.Date != "" && !validDate(*patch.Date) {
		return paysliperrors.ErrInvalidDateFormat
	}

	e := &p.Earnings[idx]
	if patch.Description != nil {
		e.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.BaseRate != nil {
		e.BaseRate = *patch.BaseRate
	}
	if patch.Hours != nil {
		e.Hours = *patch.Hours
	}
	if patch.Rate != nil {
		e.Rate = *patch.Rate
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	total := EarningTotal(e.BaseRate, e.Hours, e.Rate)
	e.Total = &total
	return nil
}

// ResolveIndex maps a positional reference onto the stable item id.
// Callers must resolve against the exact snapshot the index was taken from.
func ResolveIndex(p *Payslip, kind ItemKind, index int) (uuid.UUID, error) {
	if kind == KindEarning {
		if index < 0 || index >= len(p.Earnings) {
			return uuid.Nil, paysliperrors.ErrLineItemNotFound
		}
		return p.Earnings[index].ID, nil
	}
	items, err := p.items(kind)
	if err != nil {
		return uuid.Nil, err
	}
	if index < 0 || index >= len(*items) {
		return uuid.Nil, paysliperrors.ErrLineItemNotFound
	}
	return (*items)[index].ID, nil
}

// ItemRef is either a stable item id or a legacy position.
type ItemRef struct {
	ID    uuid.UUID
	Index int
	ByPos bool
}

// ParseItemRef accepts a UUID or a non-negative integer index.
func ParseItemRef(raw string) (ItemRef, error) {
	if id, err := uuid.Parse(raw); err == nil {
		return ItemRef{ID: id}, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return ItemRef{}, paysliperrors.ErrLineItemNotFound
	}
	return ItemRef{Index: idx, ByPos: true}, nil
}

func (r ItemRef) resolve(p *Payslip, kind ItemKind) (uuid.UUID, error) {
	if r.ByPos {
		return ResolveIndex(p, kind, r.Index)
	}
	return r.ID, nil
}
