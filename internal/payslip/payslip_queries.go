package payslip

import (
	"strings"
	"time"

	"github.com/google/uuid"

	paysliperrors "go-tutorhub/internal/payslip/errors"
)

// LineItemKey builds the query target key for an item, e.g. "bonus-<uuid>".
func LineItemKey(kind ItemKind, id uuid.UUID) string {
	return string(kind) + "-" + id.String()
}

// ParseItemKey splits a line-item key. Kinds never contain '-', ids do.
func ParseItemKey(key string) (ItemKind, uuid.UUID, error) {
	kind, rawID, ok := strings.Cut(key, "-")
	if !ok {
		return "", uuid.Nil, paysliperrors.ErrInvalidItemKey
	}
	k := ItemKind(kind)
	if !k.Valid() {
		return "", uuid.Nil, paysliperrors.ErrInvalidItemKey
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, paysliperrors.ErrInvalidItemKey
	}
	return k, id, nil
}

func validItemKey(p *Payslip, key string) bool {
	if key == GeneralQueryItem {
		return true
	}
	kind, id, err := ParseItemKey(key)
	if err != nil {
		return false
	}
	return p.HasLineItem(kind, id)
}

func noteIndex(p *Payslip, id uuid.UUID) int {
	for i := range p.Notes {
		if p.Notes[i].ID == id {
			return i
		}
	}
	return -1
}

// AddQuery raises a query against an item or the whole payslip. When the
// payslip is not already in QUERY it is moved there in the same step.
func AddQuery(p *Payslip, itemKey, text string, actor Actor, id uuid.UUID, now time.Time) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, paysliperrors.ErrEmptyNote
	}
	if !validItemKey(p, itemKey) {
		return Note{}, paysliperrors.ErrInvalidItemKey
	}

	if p.Status != StatusQuery {
		if err := Transition(p, TriggerFlagQuery, actor, now); err != nil {
			return Note{}, err
		}
	}

	note := Note{
		ID:        id,
		ItemID:    itemKey,
		Note:      text,
		CreatedBy: actor.ID,
		CreatedAt: now.UTC(),
	}
	p.Notes = append(p.Notes, note)
	return note, nil
}

func UpdateQuery(p *Payslip, queryID uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return paysliperrors.ErrEmptyNote
	}
	idx := noteIndex(p, queryID)
	if idx < 0 {
		return paysliperrors.ErrQueryNotFound
	}
	p.Notes[idx].Note = text
	return nil
}

// ResolveQuery marks a query resolved. Resolving twice is a no-op and
// reports changed=false.
func ResolveQuery(p *Payslip, queryID uuid.UUID, resolution *string, actor Actor, now time.Time) (bool, error) {
	idx := noteIndex(p, queryID)
	if idx < 0 {
		return false, paysliperrors.ErrQueryNotFound
	}
	n := &p.Notes[idx]
	if n.Resolved {
		return false, nil
	}

	resolvedAt := now.UTC()
	resolvedBy := actor.ID
	n.Resolved = true
	n.ResolvedAt = &resolvedAt
	n.ResolvedBy = &resolvedBy
	if resolution != nil {
		trimmed := strings.TrimSpace(*resolution)
		if trimmed != "" {
			n.ResolutionNote = &trimmed
		}
	}
	return true, nil
}

func DeleteQuery(p *Payslip, queryID uuid.UUID) error {
	idx := noteIndex(p, queryID)
	if idx < 0 {
		return paysliperrors.ErrQueryNotFound
	}
	p.Notes = append(p.Notes[:idx], p.Notes[idx+1:]...)
	return nil
}

// GetOpenQuery returns the first unresolved query raised against itemKey.
func GetOpenQuery(p *Payslip, itemKey string) (Note, bool) {
	for _, n := range p.Notes {
		if n.ItemID == itemKey && !n.Resolved {
			return n, true
		}
	}
	return Note{}, false
}

func HasOpenQuery(p *Payslip, itemKey string) bool {
	_, ok := GetOpenQuery(p, itemKey)
	return ok
}

// OpenQueries lists every unresolved query in creation order.
func OpenQueries(p *Payslip) []Note {
	out := make([]Note, 0, len(p.Notes))
	for _, n := range p.Notes {
		if !n.Resolved {
			out = append(out, n)
		}
	}
	return out
}
