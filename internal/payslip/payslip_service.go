package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"go-tutorhub/internal/events"
	"go-tutorhub/internal/messaging/kafka"
	paysliperrors "go-tutorhub/internal/payslip/errors"
	"go-tutorhub/internal/shared/apperror"
	"go-tutorhub/internal/shared/contextutil"
	"go-tutorhub/internal/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const periodLayout = "2006-01"

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// RateProvider resolves a tutor's current hourly rate.
type RateProvider interface {
	ResolveCurrentRate(ctx context.Context, userID string) (decimal.Decimal, bool, error)
}

// Dependencies are the optional collaborators of the service. Nil members
// switch the matching feature off.
type Dependencies struct {
	Outbox    kafka.OutboxRepository
	Rates     RateProvider
	Directory user.Directory
	Clock     func() time.Time
}

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, actor Actor, req GeneratePayslipRequest) (PayslipResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (PayslipResponse, error)
	GetMine(ctx context.Context, actor Actor) (PayslipResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]PayslipSummaryResponse, error)
	List(ctx context.Context, actor Actor, filter ListPayslipsFilterRequest) ([]PayslipSummaryResponse, int64, error)
	History(ctx context.Context, actor Actor, id string) ([]HistoryEntryResponse, error)

	SetStatus(ctx context.Context, actor Actor, id string, status string, expectedVersion int64) (PayslipResponse, error)
	ApplyTransition(ctx context.Context, actor Actor, id string, trigger Trigger, expectedVersion int64) (PayslipResponse, error)

	AddLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, req AddLineItemRequest, expectedVersion int64) (PayslipResponse, error)
	UpdateLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, itemRef string, req UpdateLineItemRequest, expectedVersion int64) (PayslipResponse, error)
	RemoveLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, itemRef string, expectedVersion int64) (PayslipResponse, error)
	UpdateEarning(ctx context.Context, actor Actor, id string, itemRef string, req UpdateEarningRequest, expectedVersion int64) (PayslipResponse, error)

	AddQuery(ctx context.Context, actor Actor, id string, req AddQueryRequest, expectedVersion int64) (PayslipResponse, error)
	UpdateQuery(ctx context.Context, actor Actor, id, queryID string, req UpdateQueryRequest, expectedVersion int64) (PayslipResponse, error)
	ResolveQuery(ctx context.Context, actor Actor, id, queryID string, req ResolveQueryRequest, expectedVersion int64) (PayslipResponse, error)
	DeleteQuery(ctx context.Context, actor Actor, id, queryID string, expectedVersion int64) (PayslipResponse, error)

	ExportRegister(ctx context.Context, actor Actor, filter ListPayslipsFilterRequest) ([]byte, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	outbox    kafka.OutboxRepository
	rates     RateProvider
	directory user.Directory
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithDeps(db, repo, Dependencies{}, logger...)
}

func NewServiceWithDeps(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		outbox:    deps.Outbox,
		rates:     deps.Rates,
		directory: deps.Directory,
		now:       clock,
		logger:    l,
	}
}

// CurrentPeriod formats t as a pay period (YYYY-MM, UTC).
func CurrentPeriod(t time.Time) string {
	return t.UTC().Format(periodLayout)
}

func (s *service) Generate(ctx context.Context, actor Actor, req GeneratePayslipRequest) (PayslipResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	ownerID := actor.ID
	if req.UserID != "" {
		uid, err := uuid.Parse(req.UserID)
		if err != nil {
			return PayslipResponse{}, paysliperrors.ErrInvalidUserID
		}
		if uid != actor.ID && !actor.Admin {
			return PayslipResponse{}, paysliperrors.ErrForbidden
		}
		ownerID = uid
	}
	if ownerID == uuid.Nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidUserID
	}

	now := s.now().UTC()
	p := &Payslip{
		ID:           uuid.New(),
		UserID:       ownerID,
		PayPeriod:    CurrentPeriod(now),
		Status:       StatusDraft,
		Earnings:     []Earning{},
		Bonuses:      []LineItem{},
		MiscEarnings: []LineItem{},
		Deductions:   []LineItem{},
		Notes:        []Note{},
		History:      []HistoryEntry{},
		Version:      1,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Paye != nil {
		p.Paye = *req.Paye
	}
	if req.UIF != nil {
		p.UIF = *req.UIF
	}
	if p.Paye.IsNegative() || p.UIF.IsNegative() {
		return PayslipResponse{}, paysliperrors.ErrInvalidMoneyValue
	}

	earnings, err := s.buildEarnings(ctx, ownerID, req.Earnings)
	if err != nil {
		return PayslipResponse{}, err
	}
	p.Earnings = earnings

	for kind, inputs := range map[ItemKind][]LineItemRequest{
		KindBonus:       req.Bonuses,
		KindMiscEarning: req.MiscEarnings,
		KindDeduction:   req.Deductions,
	} {
		for _, in := range inputs {
			amount := decimal.Zero
			if in.Amount != nil {
				amount = *in.Amount
			}
			if _, err := AddLineItem(p, kind, LineItemInput{Description: in.Description, Amount: amount}, uuid.New()); err != nil {
				return PayslipResponse{}, err
			}
		}
	}
	Recalculate(p)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForPeriod(ctx, ownerID.String(), p.PayPeriod)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	if exists {
		return PayslipResponse{}, paysliperrors.ErrPayslipAlreadyExists
	}

	if err := qtx.Create(ctx, p); err != nil {
		log.Error("create payslip failed",
			zap.String("user_id", ownerID.String()),
			zap.String("pay_period", p.PayPeriod),
			zap.Error(err),
		)
		return PayslipResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	log.Info("payslip generated",
		zap.String("payslip_id", p.ID.String()),
		zap.String("user_id", ownerID.String()),
		zap.String("pay_period", p.PayPeriod),
		zap.String("net_pay", p.NetPay.String()),
	)

	return s.toResponse(ctx, actor, p), nil
}

// buildEarnings validates the generated lines and fills a missing rate from
// the tutor's current rate (looked up at most once).
func (s *service) buildEarnings(ctx context.Context, ownerID uuid.UUID, inputs []EarningInput) ([]Earning, error) {
	earnings := make([]Earning, 0, len(inputs))

	var (
		currentRate decimal.Decimal
		rateLoaded  bool
	)
	for _, in := range inputs {
		e := Earning{
			ID:          uuid.New(),
			Description: in.Description,
			Date:        in.Date,
		}
		if in.BaseRate != nil {
			e.BaseRate = *in.BaseRate
		}
		if in.Hours != nil {
			e.Hours = *in.Hours
		}
		if in.Rate != nil {
			e.Rate = *in.Rate
		} else if s.rates != nil {
			if !rateLoaded {
				rate, ok, err := s.rates.ResolveCurrentRate(ctx, ownerID.String())
				if err != nil {
					return nil, err
				}
				if ok {
					currentRate = rate
				}
				rateLoaded = true
			}
			e.Rate = currentRate
		}
		if e.BaseRate.IsNegative() || e.Hours.IsNegative() || e.Rate.IsNegative() {
			return nil, paysliperrors.ErrInvalidMoneyValue
		}
		if e.Date != "" && !validDate(e.Date) {
			return nil, paysliperrors.ErrInvalidDateFormat
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}

func (s *service) load(ctx context.Context, actor Actor, id string) (*Payslip, error) {
	payslipID, err := uuid.Parse(id)
	if err != nil {
		return nil, paysliperrors.ErrInvalidPayslipID
	}
	p, err := s.repo.FindByID(ctx, payslipID.String())
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := Authorize(actor, p, OpView); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (PayslipResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return PayslipResponse{}, err
	}

	if totals := ComputeTotals(p); !totals.NetPay.Equal(p.NetPay) {
		contextutil.GetLogger(ctx, s.logger).Warn("stored payslip totals drifted from line items",
			zap.String("payslip_id", p.ID.String()),
			zap.String("stored_net_pay", p.NetPay.String()),
			zap.String("derived_net_pay", totals.NetPay.String()),
		)
	}

	return s.toResponse(ctx, actor, p), nil
}

func (s *service) GetMine(ctx context.Context, actor Actor) (PayslipResponse, error) {
	if actor.ID == uuid.Nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidUserID
	}
	p, err := s.repo.FindByOwnerAndPeriod(ctx, actor.ID.String(), CurrentPeriod(s.now()))
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	return s.toResponse(ctx, actor, p), nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) ([]PayslipSummaryResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, paysliperrors.ErrInvalidUserID
	}
	owner := actor.ID.String()
	payslips, _, err := s.repo.FindAll(ctx, QueryFilter{UserID: &owner})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToSummaryList(payslips), nil
}

func (s *service) List(ctx context.Context, actor Actor, req ListPayslipsFilterRequest) ([]PayslipSummaryResponse, int64, error) {
	if !actor.Admin {
		return nil, 0, paysliperrors.ErrForbidden
	}
	filter, err := parseFilter(req)
	if err != nil {
		return nil, 0, err
	}

	if req.PageSize > 0 {
		page := req.Page
		if page < 1 {
			page = 1
		}
		filter.Limit = req.PageSize
		filter.Offset = (page - 1) * req.PageSize
	}

	payslips, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, mapRepositoryError(err)
	}
	return mapToSummaryList(payslips), total, nil
}

func (s *service) History(ctx context.Context, actor Actor, id string) ([]HistoryEntryResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	users := resolveActors(ctx, s.directory, p, contextutil.GetLogger(ctx, s.logger))
	return HistoryView(p, users), nil
}

func (s *service) SetStatus(ctx context.Context, actor Actor, id string, status string, expectedVersion int64) (PayslipResponse, error) {
	target := Status(status)
	if !target.Valid() {
		return PayslipResponse{}, paysliperrors.ErrInvalidStatus
	}
	trigger, err := TriggerForStatus(target)
	if err != nil {
		return PayslipResponse{}, err
	}
	return s.ApplyTransition(ctx, actor, id, trigger, expectedVersion)
}

func (s *service) ApplyTransition(ctx context.Context, actor Actor, id string, trigger Trigger, expectedVersion int64) (PayslipResponse, error) {
	if !trigger.Valid() {
		return PayslipResponse{}, paysliperrors.ErrInvalidTransition
	}
	return s.mutate(ctx, actor, id, expectedVersion, string(trigger), func(p *Payslip, now time.Time) (bool, error) {
		return true, Transition(p, trigger, actor, now)
	})
}

func (s *service) AddLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, req AddLineItemRequest, expectedVersion int64) (PayslipResponse, error) {
	if req.Amount == nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidMoneyValue
	}
	return s.mutate(ctx, actor, id, expectedVersion, "add_line_item", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpManageItems); err != nil {
			return false, err
		}
		_, err := AddLineItem(p, kind, LineItemInput{Description: req.Description, Amount: *req.Amount}, uuid.New())
		return err == nil, err
	})
}

func (s *service) UpdateLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, itemRef string, req UpdateLineItemRequest, expectedVersion int64) (PayslipResponse, error) {
	ref, err := parseRef(itemRef, expectedVersion)
	if err != nil {
		return PayslipResponse{}, err
	}
	return s.mutate(ctx, actor, id, expectedVersion, "update_line_item", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpManageItems); err != nil {
			return false, err
		}
		itemID, err := ref.resolve(p, kind)
		if err != nil {
			return false, err
		}
		err = UpdateLineItem(p, kind, itemID, LineItemPatch{Description: req.Description, Amount: req.Amount})
		return err == nil, err
	})
}

func (s *service) RemoveLineItem(ctx context.Context, actor Actor, id string, kind ItemKind, itemRef string, expectedVersion int64) (PayslipResponse, error) {
	ref, err := parseRef(itemRef, expectedVersion)
	if err != nil {
		return PayslipResponse{}, err
	}
	return s.mutate(ctx, actor, id, expectedVersion, "remove_line_item", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpManageItems); err != nil {
			return false, err
		}
		itemID, err := ref.resolve(p, kind)
		if err != nil {
			return false, err
		}
		err = RemoveLineItem(p, kind, itemID)
		return err == nil, err
	})
}

func (s *service) UpdateEarning(ctx context.Context, actor Actor, id string, itemRef string, req UpdateEarningRequest, expectedVersion int64) (PayslipResponse, error) {
	ref, err := parseRef(itemRef, expectedVersion)
	if err != nil {
		return PayslipResponse{}, err
	}
	return s.mutate(ctx, actor, id, expectedVersion, "update_earning", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpManageItems); err != nil {
			return false, err
		}
		itemID, err := ref.resolve(p, KindEarning)
		if err != nil {
			return false, err
		}
		err = UpdateEarning(p, itemID, EarningPatch{
			Description: req.Description,
			BaseRate:    req.BaseRate,
			Hours:       req.Hours,
			Rate:        req.Rate,
			Date:        req.Date,
		})
		return err == nil, err
	})
}

func (s *service) AddQuery(ctx context.Context, actor Actor, id string, req AddQueryRequest, expectedVersion int64) (PayslipResponse, error) {
	return s.mutate(ctx, actor, id, expectedVersion, "add_query", func(p *Payslip, now time.Time) (bool, error) {
		if err := Authorize(actor, p, OpAddQuery); err != nil {
			return false, err
		}
		_, err := AddQuery(p, req.ItemID, req.Note, actor, uuid.New(), now)
		return err == nil, err
	})
}

func (s *service) UpdateQuery(ctx context.Context, actor Actor, id, queryID string, req UpdateQueryRequest, expectedVersion int64) (PayslipResponse, error) {
	qid, err := uuid.Parse(queryID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrQueryNotFound
	}
	return s.mutate(ctx, actor, id, expectedVersion, "update_query", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpUpdateQuery); err != nil {
			return false, err
		}
		err := UpdateQuery(p, qid, req.Note)
		return err == nil, err
	})
}

func (s *service) ResolveQuery(ctx context.Context, actor Actor, id, queryID string, req ResolveQueryRequest, expectedVersion int64) (PayslipResponse, error) {
	qid, err := uuid.Parse(queryID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrQueryNotFound
	}
	return s.mutate(ctx, actor, id, expectedVersion, "resolve_query", func(p *Payslip, now time.Time) (bool, error) {
		if err := Authorize(actor, p, OpResolveQuery); err != nil {
			return false, err
		}
		return ResolveQuery(p, qid, req.ResolutionNote, actor, now)
	})
}

func (s *service) DeleteQuery(ctx context.Context, actor Actor, id, queryID string, expectedVersion int64) (PayslipResponse, error) {
	qid, err := uuid.Parse(queryID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrQueryNotFound
	}
	return s.mutate(ctx, actor, id, expectedVersion, "delete_query", func(p *Payslip, _ time.Time) (bool, error) {
		if err := Authorize(actor, p, OpDeleteQuery); err != nil {
			return false, err
		}
		err := DeleteQuery(p, qid)
		return err == nil, err
	})
}

func (s *service) ExportRegister(ctx context.Context, actor Actor, req ListPayslipsFilterRequest) ([]byte, error) {
	if !actor.Admin {
		return nil, paysliperrors.ErrForbidden
	}
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}
	payslips, _, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	var users map[string]user.UserResponse
	if s.directory != nil && len(payslips) > 0 {
		ids := make([]string, 0, len(payslips))
		for _, p := range payslips {
			ids = append(ids, p.UserID.String())
		}
		users, err = s.directory.ResolveMany(ctx, ids)
		if err != nil {
			contextutil.GetLogger(ctx, s.logger).Warn("resolve register users failed", zap.Error(err))
			users = nil
		}
	}

	buf, err := BuildRegister(payslips, users)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to build payslip register", http.StatusInternalServerError)
	}
	contextutil.GetLogger(ctx, s.logger).Info("payslip register exported",
		zap.Int("rows", len(payslips)),
		zap.String("exported_by", actor.ID.String()),
	)
	return buf.Bytes(), nil
}

// mutation applies one intent to the loaded snapshot. It reports whether the
// snapshot changed; unchanged snapshots are not written.
type mutation func(p *Payslip, now time.Time) (bool, error)

// mutate is the single read-modify-write cycle behind every write. The
// repository swaps the document only if nobody wrote since it was loaded.
func (s *service) mutate(ctx context.Context, actor Actor, id string, expectedVersion int64, op string, fn mutation) (PayslipResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	payslipID, err := uuid.Parse(id)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, payslipID.String())
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	if err := Authorize(actor, p, OpView); err != nil {
		return PayslipResponse{}, err
	}
	if expectedVersion > 0 && expectedVersion != p.Version {
		return PayslipResponse{}, paysliperrors.ErrStaleSnapshot
	}

	loadedVersion := p.Version
	fromStatus := p.Status
	historyLen := len(p.History)
	now := s.now().UTC()

	changed, err := fn(p, now)
	if err != nil {
		return PayslipResponse{}, err
	}
	if !changed {
		return s.toResponse(ctx, actor, p), nil
	}

	Recalculate(p)
	p.UpdatedAt = now

	if err := qtx.Update(ctx, p, loadedVersion); err != nil {
		log.Warn("payslip update rejected",
			zap.String("payslip_id", p.ID.String()),
			zap.String("op", op),
			zap.Int64("version", loadedVersion),
			zap.Error(err),
		)
		return PayslipResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueTransitions(ctx, tx, p, fromStatus, historyLen); err != nil {
		log.Error("enqueue payslip status event failed",
			zap.String("payslip_id", p.ID.String()),
			zap.Error(err),
		)
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	log.Info("payslip updated",
		zap.String("payslip_id", p.ID.String()),
		zap.String("op", op),
		zap.String("status", string(p.Status)),
		zap.Int64("version", p.Version),
		zap.String("actor_id", actor.ID.String()),
	)

	return s.toResponse(ctx, actor, p), nil
}

// enqueueTransitions writes one outbox row per history entry appended by the
// current write, inside the same transaction.
func (s *service) enqueueTransitions(ctx context.Context, tx *sql.Tx, p *Payslip, from Status, historyLen int) error {
	if s.outbox == nil || len(p.History) <= historyLen {
		return nil
	}

	outboxRepo := s.outbox.WithTx(tx)
	rid := contextutil.GetRequestID(ctx)
	prev := from
	for _, h := range p.History[historyLen:] {
		event := events.PayslipStatusChangedEvent{
			EventType:  events.PayslipStatusChangedEventType,
			PayslipID:  p.ID.String(),
			UserID:     p.UserID.String(),
			PayPeriod:  p.PayPeriod,
			FromStatus: string(prev),
			ToStatus:   string(h.Status),
			ChangedBy:  h.UpdatedBy.String(),
			Version:    p.Version,
			OccurredAt: h.Timestamp,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payslip",
			AggregateID:   p.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayslipStatusChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}
		prev = h.Status
	}
	return nil
}

func parseRef(raw string, expectedVersion int64) (ItemRef, error) {
	ref, err := ParseItemRef(raw)
	if err != nil {
		return ItemRef{}, err
	}
	if ref.ByPos && expectedVersion <= 0 {
		return ItemRef{}, paysliperrors.ErrIndexRequiresVersion
	}
	return ref, nil
}

func parseFilter(req ListPayslipsFilterRequest) (QueryFilter, error) {
	var filter QueryFilter
	if req.Status != "" {
		st := Status(req.Status)
		if !st.Valid() {
			return QueryFilter{}, paysliperrors.ErrInvalidStatus
		}
		filter.Status = &st
	}
	if req.UserID != "" {
		if _, err := uuid.Parse(req.UserID); err != nil {
			return QueryFilter{}, paysliperrors.ErrInvalidUserID
		}
		uid := req.UserID
		filter.UserID = &uid
	}
	if req.PayPeriod != "" {
		if !periodPattern.MatchString(req.PayPeriod) {
			return QueryFilter{}, paysliperrors.ErrInvalidPeriodFormat
		}
		period := req.PayPeriod
		filter.PayPeriod = &period
	}
	return filter, nil
}

func (s *service) toResponse(ctx context.Context, actor Actor, p *Payslip) PayslipResponse {
	users := resolveActors(ctx, s.directory, p, contextutil.GetLogger(ctx, s.logger))
	return mapToResponse(actor, p, users)
}

func mapToResponse(actor Actor, p *Payslip, users map[string]user.UserResponse) PayslipResponse {
	totals := ComputeTotals(p)

	earnings := make([]EarningResponse, len(p.Earnings))
	for i, e := range p.Earnings {
		key := LineItemKey(KindEarning, e.ID)
		earnings[i] = EarningResponse{
			ID:           e.ID.String(),
			Key:          key,
			Index:        i,
			Description:  e.Description,
			BaseRate:     e.BaseRate,
			Hours:        e.Hours,
			Rate:         e.Rate,
			Total:        EarningAmount(e),
			Date:         e.Date,
			HasOpenQuery: HasOpenQuery(p, key),
		}
	}

	notes := make([]NoteResponse, len(p.Notes))
	for i, n := range p.Notes {
		notes[i] = mapNote(n, users)
	}

	triggers := AvailableTriggers(actor, p)
	actions := make([]string, len(triggers))
	for i, t := range triggers {
		actions[i] = string(t)
	}

	return PayslipResponse{
		ID:           p.ID.String(),
		UserID:       p.UserID.String(),
		PayPeriod:    p.PayPeriod,
		Status:       string(p.Status),
		Version:      p.Version,
		Earnings:     earnings,
		Bonuses:      mapItems(p, KindBonus, p.Bonuses),
		MiscEarnings: mapItems(p, KindMiscEarning, p.MiscEarnings),
		Deductions:   mapItems(p, KindDeduction, p.Deductions),
		Totals: TotalsResponse{
			GrossEarnings:   totals.GrossEarnings,
			Bonuses:         totals.Bonuses,
			MiscEarnings:    totals.MiscEarnings,
			Deductions:      totals.Deductions,
			Paye:            p.Paye,
			UIF:             p.UIF,
			TotalIncome:     totals.TotalIncome,
			TotalDeductions: totals.TotalDeductions,
			NetPay:          totals.NetPay,
		},
		Notes:            notes,
		History:          HistoryView(p, users),
		OpenQueries:      len(OpenQueries(p)),
		AvailableActions: actions,
		CanEditItems:     CanManageItems(actor, p),
		CanQuery:         CanQuery(actor, p),
		CreatedBy:        p.CreatedBy.String(),
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapItems(p *Payslip, kind ItemKind, items []LineItem) []LineItemResponse {
	res := make([]LineItemResponse, len(items))
	for i, it := range items {
		key := LineItemKey(kind, it.ID)
		res[i] = LineItemResponse{
			ID:           it.ID.String(),
			Key:          key,
			Index:        i,
			Description:  it.Description,
			Amount:       it.Amount,
			HasOpenQuery: HasOpenQuery(p, key),
		}
	}
	return res
}

func mapNote(n Note, users map[string]user.UserResponse) NoteResponse {
	res := NoteResponse{
		ID:             n.ID.String(),
		ItemID:         n.ItemID,
		Note:           n.Note,
		Resolved:       n.Resolved,
		ResolutionNote: n.ResolutionNote,
		CreatedBy:      n.CreatedBy.String(),
		CreatedByName:  n.CreatedBy.String(),
		CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u, ok := users[res.CreatedBy]; ok && u.Name != "" {
		res.CreatedByName = u.Name
	}
	if n.ResolvedBy != nil {
		by := n.ResolvedBy.String()
		res.ResolvedBy = &by
	}
	if n.ResolvedAt != nil {
		at := n.ResolvedAt.UTC().Format(time.RFC3339)
		res.ResolvedAt = &at
	}
	return res
}

func mapToSummaryList(payslips []Payslip) []PayslipSummaryResponse {
	res := make([]PayslipSummaryResponse, len(payslips))
	for i := range payslips {
		p := &payslips[i]
		totals := ComputeTotals(p)
		res[i] = PayslipSummaryResponse{
			ID:              p.ID.String(),
			UserID:          p.UserID.String(),
			PayPeriod:       p.PayPeriod,
			Status:          string(p.Status),
			Version:         p.Version,
			GrossEarnings:   totals.GrossEarnings,
			TotalIncome:     totals.TotalIncome,
			TotalDeductions: totals.TotalDeductions,
			NetPay:          totals.NetPay,
			OpenQueries:     len(OpenQueries(p)),
		}
	}
	return res
}
