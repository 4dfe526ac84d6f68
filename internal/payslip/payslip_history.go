package payslip

import (
	"context"
	"time"

	"go-tutorhub/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// historyActors collects every user id shown next to history entries and notes.
func historyActors(p *Payslip) []string {
	seen := make(map[uuid.UUID]struct{}, len(p.History)+len(p.Notes))
	ids := make([]string, 0, len(p.History)+len(p.Notes))
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id.String())
	}
	for _, h := range p.History {
		add(h.UpdatedBy)
	}
	for _, n := range p.Notes {
		add(n.CreatedBy)
		if n.ResolvedBy != nil {
			add(*n.ResolvedBy)
		}
	}
	return ids
}

// resolveActors looks the ids up in the directory. A failing directory only
// degrades the display, it never fails the read.
func resolveActors(ctx context.Context, dir user.Directory, p *Payslip, logger *zap.Logger) map[string]user.UserResponse {
	if dir == nil {
		return nil
	}
	ids := historyActors(p)
	if len(ids) == 0 {
		return nil
	}
	users, err := dir.ResolveMany(ctx, ids)
	if err != nil {
		logger.Warn("resolve history actors failed",
			zap.String("payslip_id", p.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	return users
}

// HistoryView renders the status history oldest first. Unknown users are
// shown by their raw id.
func HistoryView(p *Payslip, users map[string]user.UserResponse) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(p.History))
	for _, h := range p.History {
		id := h.UpdatedBy.String()
		entry := HistoryEntryResponse{
			Status:        string(h.Status),
			Timestamp:     h.Timestamp.UTC().Format(time.RFC3339),
			UpdatedBy:     id,
			UpdatedByName: id,
		}
		if u, ok := users[id]; ok {
			if u.Name != "" {
				entry.UpdatedByName = u.Name
			}
			entry.UpdatedByEmail = u.Email
		}
		out = append(out, entry)
	}
	return out
}

// LastTransition returns the newest history entry.
func LastTransition(p *Payslip) (HistoryEntry, bool) {
	if p == nil || len(p.History) == 0 {
		return HistoryEntry{}, false
	}
	return p.History[len(p.History)-1], true
}
