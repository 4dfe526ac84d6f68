package payslip_test

import (
	"testing"

	"go-tutorhub/internal/payslip"
	paysliperrors "go-tutorhub/internal/payslip/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLineItem(t *testing.T) {
	t.Run("appends with stable id", func(t *testing.T) {
		p := fixturePayslip(uuid.New())
		id := uuid.New()

		item, err := payslip.AddLineItem(p, payslip.KindBonus, payslip.LineItemInput{Description: "  Overtime ", Amount: dec("250")}, id)

		require.NoError(t, err)
		assert.Equal(t, id, item.ID)
		assert.Equal(t, "Overtime", item.Description)
		require.Len(t, p.Bonuses, 2)
		assert.Equal(t, id, p.Bonuses[1].ID)
		assert.True(t, p.HasLineItem(payslip.KindBonus, id))
	})

	t.Run("negative amount", func(t *testing.T) {
		p := fixturePayslip(uuid.New())
		_, err := payslip.AddLineItem(p, payslip.KindDeduction, payslip.LineItemInput{Description: "x", Amount: dec("-1")}, uuid.New())
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidMoneyValue)
		assert.Len(t, p.Deductions, 1)
	})

	t.Run("earnings are read only", func(t *testing.T) {
		p := fixturePayslip(uuid.New())
		_, err := payslip.AddLineItem(p, payslip.KindEarning, payslip.LineItemInput{Description: "x", Amount: dec("1")}, uuid.New())
		assert.ErrorIs(t, err, paysliperrors.ErrEarningsReadOnly)
	})

	t.Run("unknown kind", func(t *testing.T) {
		p := fixturePayslip(uuid.New())
		_, err := payslip.AddLineItem(p, "tips", payslip.LineItemInput{Description: "x", Amount: dec("1")}, uuid.New())
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidItemKind)
	})
}

func TestUpdateLineItem(t *testing.T) {
	p := fixturePayslip(uuid.New())
	id := p.MiscEarnings[0].ID

	desc := "Taxi"
	require.NoError(t, payslip.UpdateLineItem(p, payslip.KindMiscEarning, id, payslip.LineItemPatch{Description: &desc}))
	assert.Equal(t, "Taxi", p.MiscEarnings[0].Description)
	assert.True(t, dec("100").Equal(p.MiscEarnings[0].Amount))

	require.NoError(t, payslip.UpdateLineItem(p, payslip.KindMiscEarning, id, payslip.LineItemPatch{Amount: decPtr("120.50")}))
	assert.True(t, dec("120.50").Equal(p.MiscEarnings[0].Amount))

	err := payslip.UpdateLineItem(p, payslip.KindMiscEarning, id, payslip.LineItemPatch{Amount: decPtr("-5")})
	assert.ErrorIs(t, err, paysliperrors.ErrInvalidMoneyValue)

	err = payslip.UpdateLineItem(p, payslip.KindMiscEarning, uuid.New(), payslip.LineItemPatch{Description: &desc})
	assert.ErrorIs(t, err, paysliperrors.ErrLineItemNotFound)
}

func TestRemoveLineItem(t *testing.T) {
	owner := uuid.New()
	p := fixturePayslip(owner)
	first := p.Bonuses[0].ID
	_, err := payslip.AddLineItem(p, payslip.KindBonus, payslip.LineItemInput{Description: "Second", Amount: dec("10")}, uuid.New())
	require.NoError(t, err)
	second := p.Bonuses[1].ID

	p.Notes = append(p.Notes, payslip.Note{ID: uuid.New(), ItemID: payslip.LineItemKey(payslip.KindBonus, second), Note: "why?"})

	require.NoError(t, payslip.RemoveLineItem(p, payslip.KindBonus, first))

	// ids keep addressing the same element after the shift
	require.Len(t, p.Bonuses, 1)
	assert.Equal(t, second, p.Bonuses[0].ID)
	assert.ErrorIs(t, payslip.RemoveLineItem(p, payslip.KindBonus, first), paysliperrors.ErrLineItemNotFound)

	require.NoError(t, payslip.RemoveLineItem(p, payslip.KindBonus, second))
	assert.Empty(t, p.Bonuses)
	assert.Len(t, p.Notes, 1)
}

func TestUpdateEarning(t *testing.T) {
	p := fixturePayslip(uuid.New())
	id := p.Earnings[1].ID

	date := "2026-03-02"
	require.NoError(t, payslip.UpdateEarning(p, id, payslip.EarningPatch{Hours: decPtr("6"), Date: &date}))

	e := p.Earnings[1]
	assert.True(t, dec("6").Equal(e.Hours))
	assert.Equal(t, date, e.Date)
	if assert.NotNil(t, e.Total) {
		assert.True(t, dec("1200").Equal(*e.Total))
	}

	assert.ErrorIs(t, payslip.UpdateEarning(p, id, payslip.EarningPatch{Rate: decPtr("-1")}), paysliperrors.ErrInvalidMoneyValue)

	bad := "02/03/2026"
	assert.ErrorIs(t, payslip.UpdateEarning(p, id, payslip.EarningPatch{Date: &bad}), paysliperrors.ErrInvalidDateFormat)
	assert.ErrorIs(t, payslip.UpdateEarning(p, uuid.New(), payslip.EarningPatch{}), paysliperrors.ErrLineItemNotFound)
}

func TestResolveIndex(t *testing.T) {
	p := fixturePayslip(uuid.New())

	id, err := payslip.ResolveIndex(p, payslip.KindEarning, 1)
	require.NoError(t, err)
	assert.Equal(t, p.Earnings[1].ID, id)

	id, err = payslip.ResolveIndex(p, payslip.KindDeduction, 0)
	require.NoError(t, err)
	assert.Equal(t, p.Deductions[0].ID, id)

	_, err = payslip.ResolveIndex(p, payslip.KindBonus, 1)
	assert.ErrorIs(t, err, paysliperrors.ErrLineItemNotFound)
	_, err = payslip.ResolveIndex(p, payslip.KindBonus, -1)
	assert.ErrorIs(t, err, paysliperrors.ErrLineItemNotFound)
}

func TestParseItemRef(t *testing.T) {
	id := uuid.New()

	ref, err := payslip.ParseItemRef(id.String())
	require.NoError(t, err)
	assert.Equal(t, payslip.ItemRef{ID: id}, ref)

	ref, err = payslip.ParseItemRef("2")
	require.NoError(t, err)
	assert.Equal(t, payslip.ItemRef{Index: 2, ByPos: true}, ref)

	for _, raw := range []string{"-1", "abc", ""} {
		_, err := payslip.ParseItemRef(raw)
		assert.ErrorIs(t, err, paysliperrors.ErrLineItemNotFound, raw)
	}
}

func TestParseRouteKind(t *testing.T) {
	cases := map[string]payslip.ItemKind{
		"earnings":      payslip.KindEarning,
		"bonuses":       payslip.KindBonus,
		"misc-earnings": payslip.KindMiscEarning,
		"deductions":    payslip.KindDeduction,
	}
	for segment, want := range cases {
		got, err := payslip.ParseRouteKind(segment)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := payslip.ParseRouteKind("bonus")
	assert.ErrorIs(t, err, paysliperrors.ErrInvalidItemKind)
}
