package payslip_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-tutorhub/internal/events"
	"go-tutorhub/internal/messaging/kafka"
	kafkaMock "go-tutorhub/internal/messaging/kafka/mock"
	"go-tutorhub/internal/payslip"
	paysliperrors "go-tutorhub/internal/payslip/errors"
	"go-tutorhub/internal/payslip/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeRates struct {
	ResolveFn func(ctx context.Context, userID string) (decimal.Decimal, bool, error)
}

func (f *fakeRates) ResolveCurrentRate(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	return f.ResolveFn(ctx, userID)
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *mock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
	rates   *fakeRates
	service payslip.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	rates := &fakeRates{
		ResolveFn: func(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
			return decimal.Zero, false, nil
		},
	}

	svc := payslip.NewServiceWithDeps(db, repo, payslip.Dependencies{
		Outbox: outbox,
		Rates:  rates,
		Clock:  func() time.Time { return fixedNow },
	}, zap.NewNop())

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		outbox:  outbox,
		rates:   rates,
		service: svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// expectLoad wires WithTx and FindByID for one read-modify-write cycle.
func (d *serviceDeps) expectLoad(p *payslip.Payslip) {
	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
	d.repo.EXPECT().FindByID(gomock.Any(), p.ID.String()).Return(p, nil)
}

// expectSwap accepts the compare-and-swap against the loaded version.
func (d *serviceDeps) expectSwap(version int64) {
	d.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), version).
		DoAndReturn(func(_ context.Context, p *payslip.Payslip, expected int64) error {
			p.Version = expected + 1
			return nil
		})
}

func TestPayslipService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("success with defaulted rate", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		deps.rates.ResolveFn = func(_ context.Context, userID string) (decimal.Decimal, bool, error) {
			assert.Equal(t, owner.String(), userID)
			return dec("250"), true, nil
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsForPeriod(gomock.Any(), owner.String(), "2026-03").Return(false, nil)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *payslip.Payslip) error {
				assert.Equal(t, payslip.StatusDraft, p.Status)
				assert.Equal(t, int64(1), p.Version)
				assert.Equal(t, "2026-03", p.PayPeriod)
				assert.Empty(t, p.History)
				assert.NotNil(t, p.Notes)
				assert.True(t, dec("250").Equal(p.Earnings[0].Rate))
				assert.True(t, dec("1500").Equal(p.NetPay))
				return nil
			})

		resp, err := deps.service.Generate(ctx, payslip.Actor{ID: owner}, payslip.GeneratePayslipRequest{
			Earnings: []payslip.EarningInput{
				{Description: "Physics", Hours: decPtr("4")},
				{Description: "Chemistry", BaseRate: decPtr("50"), Hours: decPtr("2"), Rate: decPtr("300")},
			},
			Deductions: []payslip.LineItemRequest{{Description: "Advance", Amount: decPtr("100")}},
			Paye:       decPtr("50"),
		})

		require.NoError(t, err)
		assert.Equal(t, owner.String(), resp.UserID)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.True(t, dec("1650").Equal(resp.Totals.GrossEarnings))
		assert.True(t, dec("1500").Equal(resp.Totals.NetPay))
		assert.Equal(t, 0, resp.Earnings[0].Index)
		assert.Equal(t, 1, resp.Earnings[1].Index)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already exists", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsForPeriod(gomock.Any(), owner.String(), "2026-03").Return(true, nil)

		_, err := deps.service.Generate(ctx, payslip.Actor{ID: owner}, payslip.GeneratePayslipRequest{})

		assert.ErrorIs(t, err, paysliperrors.ErrPayslipAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("staff cannot generate for someone else", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Generate(ctx, payslip.Actor{ID: uuid.New()}, payslip.GeneratePayslipRequest{
			UserID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, paysliperrors.ErrForbidden)
	})

	t.Run("negative hours rejected", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Generate(ctx, payslip.Actor{ID: uuid.New()}, payslip.GeneratePayslipRequest{
			Earnings: []payslip.EarningInput{{Description: "x", Hours: decPtr("-1"), Rate: decPtr("10")}},
		})

		assert.ErrorIs(t, err, paysliperrors.ErrInvalidMoneyValue)
	})
}

func TestPayslipService_ApplyTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("submit enqueues status event", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.expectSwap(3)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.PayslipStatusChangedTopic, e.Topic)
				assert.Equal(t, "payslip", e.AggregateType)
				assert.Equal(t, p.ID.String(), e.AggregateID)
				assert.Equal(t, kafka.OutboxStatusPending, e.Status)

				var ev events.PayslipStatusChangedEvent
				require.NoError(t, json.Unmarshal(e.Payload, &ev))
				assert.Equal(t, "DRAFT", ev.FromStatus)
				assert.Equal(t, "STAFF_APPROVED", ev.ToStatus)
				assert.Equal(t, int64(4), ev.Version)
				return nil
			})

		resp, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.TriggerSubmitForApproval, 3)

		require.NoError(t, err)
		assert.Equal(t, "STAFF_APPROVED", resp.Status)
		assert.Equal(t, int64(4), resp.Version)
		require.Len(t, resp.History, 1)
		assert.Equal(t, owner.String(), resp.History[0].UpdatedByName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("stale expected version", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		_, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.TriggerSubmitForApproval, 2)

		assert.ErrorIs(t, err, paysliperrors.ErrStaleSnapshot)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("concurrent writer wins the swap", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), int64(3)).Return(paysliperrors.ErrStaleSnapshot)

		_, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.TriggerFlagQuery, 0)

		assert.ErrorIs(t, err, paysliperrors.ErrStaleSnapshot)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("staff cannot approve", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)
		p.Status = payslip.StatusStaffApproved

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		_, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.TriggerApprove, 0)

		assert.ErrorIs(t, err, paysliperrors.ErrForbidden)
	})

	t.Run("unknown trigger", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: uuid.New()}, uuid.NewString(), "archive", 0)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidTransition)
	})

	t.Run("invalid payslip id", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.ApplyTransition(ctx, payslip.Actor{ID: uuid.New()}, "nope", payslip.TriggerFlagQuery, 0)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidPayslipID)
	})
}

func TestPayslipService_SubmitRejectThenApproveDraft(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	owner := uuid.New()
	staff := payslip.Actor{ID: owner}
	admin := payslip.Actor{ID: uuid.New(), Admin: true}
	p := fixturePayslip(owner)

	// submit
	expectTx(t, deps.sqlMock, true)
	deps.expectLoad(p)
	deps.expectSwap(3)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := deps.service.ApplyTransition(ctx, staff, p.ID.String(), payslip.TriggerSubmitForApproval, 3)
	require.NoError(t, err)
	assert.Equal(t, "STAFF_APPROVED", resp.Status)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "STAFF_APPROVED", resp.History[0].Status)
	assert.Equal(t, owner.String(), resp.History[0].UpdatedBy)

	// reject
	expectTx(t, deps.sqlMock, true)
	deps.expectLoad(p)
	deps.expectSwap(4)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err = deps.service.ApplyTransition(ctx, admin, p.ID.String(), payslip.TriggerReject, 4)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", resp.Status)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "DRAFT", resp.History[1].Status)
	assert.Equal(t, admin.ID.String(), resp.History[1].UpdatedBy)

	// approve straight from DRAFT is not in the table
	expectTx(t, deps.sqlMock, false)
	deps.expectLoad(p)

	_, err = deps.service.ApplyTransition(ctx, admin, p.ID.String(), payslip.TriggerApprove, 5)
	assert.ErrorIs(t, err, paysliperrors.ErrInvalidTransition)
	assert.Equal(t, payslip.StatusDraft, p.Status)
	assert.Len(t, p.History, 2)
	assert.Equal(t, int64(5), p.Version)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayslipService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("maps target status onto its trigger", func(t *testing.T) {
		deps := setupServiceTest(t)
		admin := payslip.Actor{ID: uuid.New(), Admin: true}
		p := fixturePayslip(uuid.New())
		p.Status = payslip.StatusLocked

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.expectSwap(3)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.SetStatus(ctx, admin, p.ID.String(), "PAID", 0)

		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
		assert.Empty(t, resp.AvailableActions)
		assert.False(t, resp.CanEditItems)
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.SetStatus(ctx, payslip.Actor{ID: uuid.New()}, uuid.NewString(), "ARCHIVED", 0)
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidStatus)
	})
}

func TestPayslipService_LineItems(t *testing.T) {
	ctx := context.Background()

	t.Run("add bonus recalculates totals", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), int64(3)).
			DoAndReturn(func(_ context.Context, got *payslip.Payslip, expected int64) error {
				assert.True(t, dec("4650").Equal(got.NetPay))
				got.Version = expected + 1
				return nil
			})

		resp, err := deps.service.AddLineItem(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.KindBonus,
			payslip.AddLineItemRequest{Description: "Holiday classes", Amount: decPtr("200")}, 0)

		require.NoError(t, err)
		require.Len(t, resp.Bonuses, 2)
		assert.Equal(t, 1, resp.Bonuses[1].Index)
		assert.True(t, dec("4650").Equal(resp.Totals.NetPay))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locked payslip is immutable even for admins", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := fixturePayslip(uuid.New())
		p.Status = payslip.StatusLocked

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		_, err := deps.service.AddLineItem(ctx, payslip.Actor{ID: uuid.New(), Admin: true}, p.ID.String(), payslip.KindBonus,
			payslip.AddLineItemRequest{Description: "late", Amount: decPtr("1")}, 0)

		assert.ErrorIs(t, err, paysliperrors.ErrPayslipImmutable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("staff cannot edit while in query", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)
		p.Status = payslip.StatusQuery

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		_, err := deps.service.RemoveLineItem(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.KindBonus, p.Bonuses[0].ID.String(), 0)

		assert.ErrorIs(t, err, paysliperrors.ErrItemsNotEditable)
	})

	t.Run("positional reference needs a version", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.UpdateLineItem(ctx, payslip.Actor{ID: uuid.New()}, uuid.NewString(), payslip.KindBonus, "0",
			payslip.UpdateLineItemRequest{Amount: decPtr("1")}, 0)

		assert.ErrorIs(t, err, paysliperrors.ErrIndexRequiresVersion)
	})

	t.Run("positional reference against matching version", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.expectSwap(3)

		resp, err := deps.service.UpdateLineItem(ctx, payslip.Actor{ID: owner}, p.ID.String(), payslip.KindDeduction, "0",
			payslip.UpdateLineItemRequest{Amount: decPtr("80")}, 3)

		require.NoError(t, err)
		assert.True(t, dec("80").Equal(resp.Deductions[0].Amount))
		assert.True(t, dec("4420").Equal(resp.Totals.NetPay))
	})

	t.Run("update earning by id", func(t *testing.T) {
		deps := setupServiceTest(t)
		admin := payslip.Actor{ID: uuid.New(), Admin: true}
		p := fixturePayslip(uuid.New())
		p.Status = payslip.StatusQuery

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.expectSwap(3)

		resp, err := deps.service.UpdateEarning(ctx, admin, p.ID.String(), p.Earnings[0].ID.String(),
			payslip.UpdateEarningRequest{Hours: decPtr("9")}, 0)

		require.NoError(t, err)
		assert.True(t, dec("2800").Equal(resp.Earnings[0].Total))
		assert.True(t, dec("4150").Equal(resp.Totals.NetPay))
	})
}

func TestPayslipService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("add query flags payslip", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)
		key := payslip.LineItemKey(payslip.KindEarning, p.Earnings[1].ID)

		expectTx(t, deps.sqlMock, true)
		deps.expectLoad(p)
		deps.expectSwap(3)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.AddQuery(ctx, payslip.Actor{ID: owner}, p.ID.String(),
			payslip.AddQueryRequest{ItemID: key, Note: "Only 4 hours"}, 0)

		require.NoError(t, err)
		assert.Equal(t, "QUERY", resp.Status)
		assert.Equal(t, 1, resp.OpenQueries)
		assert.True(t, resp.Earnings[1].HasOpenQuery)
		assert.False(t, resp.Earnings[0].HasOpenQuery)
		assert.False(t, resp.CanEditItems)
	})

	t.Run("resolving twice does not write", func(t *testing.T) {
		deps := setupServiceTest(t)
		admin := payslip.Actor{ID: uuid.New(), Admin: true}
		p := fixturePayslip(uuid.New())
		p.Status = payslip.StatusQuery
		resolvedAt := fixedNow.Add(-time.Hour)
		qid := uuid.New()
		p.Notes = []payslip.Note{{ID: qid, ItemID: payslip.GeneralQueryItem, Note: "?", Resolved: true, ResolvedAt: &resolvedAt}}

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		resp, err := deps.service.ResolveQuery(ctx, admin, p.ID.String(), qid.String(), payslip.ResolveQueryRequest{}, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Version)
		assert.True(t, resp.Notes[0].Resolved)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := fixturePayslip(uuid.New())

		expectTx(t, deps.sqlMock, false)
		deps.expectLoad(p)

		_, err := deps.service.DeleteQuery(ctx, payslip.Actor{ID: uuid.New()}, p.ID.String(), uuid.NewString(), 0)

		assert.ErrorIs(t, err, paysliperrors.ErrForbidden)
	})

	t.Run("malformed query id", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.UpdateQuery(ctx, payslip.Actor{ID: uuid.New()}, uuid.NewString(), "q-1",
			payslip.UpdateQueryRequest{Note: "x"}, 0)
		assert.ErrorIs(t, err, paysliperrors.ErrQueryNotFound)
	})
}

func TestPayslipService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get by id for stranger", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := fixturePayslip(uuid.New())
		deps.repo.EXPECT().FindByID(gomock.Any(), p.ID.String()).Return(p, nil)

		_, err := deps.service.GetByID(ctx, payslip.Actor{ID: uuid.New()}, p.ID.String())

		assert.ErrorIs(t, err, paysliperrors.ErrForbidden)
	})

	t.Run("get by id re-derives totals", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		p := fixturePayslip(owner)
		p.NetPay = dec("1")
		deps.repo.EXPECT().FindByID(gomock.Any(), p.ID.String()).Return(p, nil)

		resp, err := deps.service.GetByID(ctx, payslip.Actor{ID: owner}, p.ID.String())

		require.NoError(t, err)
		assert.True(t, dec("4450").Equal(resp.Totals.NetPay))
		assert.Equal(t, []string{"submit_for_approval", "flag_query"}, resp.AvailableActions)
	})

	t.Run("get mine uses current period", func(t *testing.T) {
		deps := setupServiceTest(t)
		owner := uuid.New()
		deps.repo.EXPECT().FindByOwnerAndPeriod(gomock.Any(), owner.String(), "2026-03").Return(nil, paysliperrors.ErrPayslipNotFound)

		_, err := deps.service.GetMine(ctx, payslip.Actor{ID: owner})

		assert.ErrorIs(t, err, paysliperrors.ErrPayslipNotFound)
	})

	t.Run("list is admin only", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, _, err := deps.service.List(ctx, payslip.Actor{ID: uuid.New()}, payslip.ListPayslipsFilterRequest{})
		assert.ErrorIs(t, err, paysliperrors.ErrForbidden)
	})

	t.Run("list validates period", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, _, err := deps.service.List(ctx, payslip.Actor{ID: uuid.New(), Admin: true}, payslip.ListPayslipsFilterRequest{PayPeriod: "2026-13"})
		assert.ErrorIs(t, err, paysliperrors.ErrInvalidPeriodFormat)
	})

	t.Run("list filters and pages", func(t *testing.T) {
		deps := setupServiceTest(t)
		third := *fixturePayslip(uuid.New())
		deps.repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f payslip.QueryFilter) ([]payslip.Payslip, int64, error) {
				require.NotNil(t, f.Status)
				assert.Equal(t, payslip.StatusDraft, *f.Status)
				require.NotNil(t, f.PayPeriod)
				assert.Equal(t, "2026-03", *f.PayPeriod)
				assert.Nil(t, f.UserID)
				assert.Equal(t, 2, f.Limit)
				assert.Equal(t, 2, f.Offset)
				return []payslip.Payslip{third}, 3, nil
			})

		resp, total, err := deps.service.List(ctx, payslip.Actor{ID: uuid.New(), Admin: true}, payslip.ListPayslipsFilterRequest{
			Status:    "DRAFT",
			PayPeriod: "2026-03",
			Page:      2,
			PageSize:  2,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, resp, 1)
		assert.Equal(t, third.ID.String(), resp[0].ID)
		assert.True(t, dec("4450").Equal(resp[0].NetPay))
	})

	t.Run("export builds a workbook", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f payslip.QueryFilter) ([]payslip.Payslip, int64, error) {
				assert.Zero(t, f.Limit)
				return []payslip.Payslip{*fixturePayslip(uuid.New())}, 1, nil
			})

		data, err := deps.service.ExportRegister(ctx, payslip.Actor{ID: uuid.New(), Admin: true}, payslip.ListPayslipsFilterRequest{})

		require.NoError(t, err)
		assert.Greater(t, len(data), 0)
		// xlsx files are zip archives
		assert.Equal(t, "PK", string(data[:2]))
	})
}
