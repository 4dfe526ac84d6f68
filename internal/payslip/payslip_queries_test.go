package payslip_test

import (
	"testing"
	"time"

	"go-tutorhub/internal/payslip"
	paysliperrors "go-tutorhub/internal/payslip/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemKey(t *testing.T) {
	id := uuid.New()
	key := payslip.LineItemKey(payslip.KindMiscEarning, id)
	assert.Equal(t, "misc_earning-"+id.String(), key)

	kind, got, err := payslip.ParseItemKey(key)
	require.NoError(t, err)
	assert.Equal(t, payslip.KindMiscEarning, kind)
	assert.Equal(t, id, got)

	for _, bad := range []string{"bonus", "bonus-0", "tips-" + id.String(), payslip.GeneralQueryItem} {
		_, _, err := payslip.ParseItemKey(bad)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidItemKey, bad)
	}
}

func TestAddQuery(t *testing.T) {
	owner := uuid.New()
	staff := payslip.Actor{ID: owner}
	now := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)

	t.Run("flags the payslip in the same step", func(t *testing.T) {
		p := fixturePayslip(owner)
		key := payslip.LineItemKey(payslip.KindEarning, p.Earnings[0].ID)

		note, err := payslip.AddQuery(p, key, "  hours are wrong ", staff, uuid.New(), now)

		require.NoError(t, err)
		assert.Equal(t, "hours are wrong", note.Note)
		assert.False(t, note.Resolved)
		assert.Equal(t, owner, note.CreatedBy)
		assert.Equal(t, payslip.StatusQuery, p.Status)
		require.Len(t, p.History, 1)
		assert.Equal(t, payslip.StatusQuery, p.History[0].Status)
		assert.True(t, payslip.HasOpenQuery(p, key))
	})

	t.Run("already in query adds no history", func(t *testing.T) {
		p := fixturePayslip(owner)
		p.Status = payslip.StatusQuery

		_, err := payslip.AddQuery(p, payslip.GeneralQueryItem, "missing lesson", staff, uuid.New(), now)

		require.NoError(t, err)
		assert.Empty(t, p.History)
		assert.Len(t, p.Notes, 1)
	})

	t.Run("duplicate open queries are allowed", func(t *testing.T) {
		p := fixturePayslip(owner)
		key := payslip.LineItemKey(payslip.KindBonus, p.Bonuses[0].ID)
		first, err := payslip.AddQuery(p, key, "one", staff, uuid.New(), now)
		require.NoError(t, err)
		_, err = payslip.AddQuery(p, key, "two", staff, uuid.New(), now)
		require.NoError(t, err)

		got, ok := payslip.GetOpenQuery(p, key)
		require.True(t, ok)
		assert.Equal(t, first.ID, got.ID)
		assert.Len(t, payslip.OpenQueries(p), 2)
	})

	t.Run("rejects unknown item", func(t *testing.T) {
		p := fixturePayslip(owner)
		_, err := payslip.AddQuery(p, payslip.LineItemKey(payslip.KindBonus, uuid.New()), "x", staff, uuid.New(), now)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidItemKey)
		assert.Equal(t, payslip.StatusDraft, p.Status)
	})

	t.Run("rejects empty note", func(t *testing.T) {
		p := fixturePayslip(owner)
		_, err := payslip.AddQuery(p, payslip.GeneralQueryItem, "   ", staff, uuid.New(), now)
		assert.ErrorIs(t, err, paysliperrors.ErrEmptyNote)
	})

	t.Run("locked payslip cannot be flagged", func(t *testing.T) {
		p := fixturePayslip(owner)
		p.Status = payslip.StatusLocked
		_, err := payslip.AddQuery(p, payslip.GeneralQueryItem, "x", payslip.Actor{ID: uuid.New(), Admin: true}, uuid.New(), now)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidTransition)
		assert.Empty(t, p.Notes)
	})
}

func TestResolveQuery(t *testing.T) {
	owner := uuid.New()
	admin := payslip.Actor{ID: uuid.New(), Admin: true}
	now := time.Date(2026, 3, 21, 10, 0, 0, 0, time.UTC)

	p := fixturePayslip(owner)
	p.Status = payslip.StatusQuery
	qid := uuid.New()
	p.Notes = []payslip.Note{{ID: qid, ItemID: payslip.GeneralQueryItem, Note: "?", CreatedBy: owner}}

	resolution := " corrected hours "
	changed, err := payslip.ResolveQuery(p, qid, &resolution, admin, now)
	require.NoError(t, err)
	assert.True(t, changed)
	snapshot := p.Notes[0]
	assert.True(t, snapshot.Resolved)
	require.NotNil(t, snapshot.ResolutionNote)
	assert.Equal(t, "corrected hours", *snapshot.ResolutionNote)
	require.NotNil(t, snapshot.ResolvedBy)
	assert.Equal(t, admin.ID, *snapshot.ResolvedBy)

	other := "different"
	changed, err = payslip.ResolveQuery(p, qid, &other, admin, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, snapshot, p.Notes[0])
	assert.False(t, payslip.HasOpenQuery(p, payslip.GeneralQueryItem))

	_, err = payslip.ResolveQuery(p, uuid.New(), nil, admin, now)
	assert.ErrorIs(t, err, paysliperrors.ErrQueryNotFound)
}

func TestUpdateAndDeleteQuery(t *testing.T) {
	p := fixturePayslip(uuid.New())
	qid := uuid.New()
	p.Notes = []payslip.Note{{ID: qid, ItemID: payslip.GeneralQueryItem, Note: "old"}}

	require.NoError(t, payslip.UpdateQuery(p, qid, "new"))
	assert.Equal(t, "new", p.Notes[0].Note)
	assert.ErrorIs(t, payslip.UpdateQuery(p, qid, " "), paysliperrors.ErrEmptyNote)
	assert.ErrorIs(t, payslip.UpdateQuery(p, uuid.New(), "x"), paysliperrors.ErrQueryNotFound)

	require.NoError(t, payslip.DeleteQuery(p, qid))
	assert.Empty(t, p.Notes)
	assert.ErrorIs(t, payslip.DeleteQuery(p, qid), paysliperrors.ErrQueryNotFound)

	_, ok := payslip.GetOpenQuery(p, payslip.GeneralQueryItem)
	assert.False(t, ok)
}
