package payrate

import (
	"context"
	"database/sql"
	"time"

	payrateerrors "go-tutorhub/internal/payrate/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=pay_rate_service.go -destination=mock/pay_rate_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, managerID string, req CreateRateAdjustmentRequest) (RateAdjustmentResponse, error)
	ListForUser(ctx context.Context, userID string) (RateHistoryResponse, error)
	// ResolveCurrentRate reports false when the user has no adjustments.
	ResolveCurrentRate(ctx context.Context, userID string) (decimal.Decimal, bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrate.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrate.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	managerID string,
	req CreateRateAdjustmentRequest,
) (RateAdjustmentResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return RateAdjustmentResponse{}, payrateerrors.ErrInvalidUserID
	}
	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return RateAdjustmentResponse{}, payrateerrors.ErrInvalidManagerID
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return RateAdjustmentResponse{}, payrateerrors.ErrInvalidEffectiveDate
	}
	if req.NewRate == nil || req.NewRate.IsNegative() {
		return RateAdjustmentResponse{}, payrateerrors.ErrNegativeRate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateAdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	adjustment := &RateAdjustment{
		ID:                 uuid.New(),
		UserID:             userID,
		NewRate:            *req.NewRate,
		EffectiveDate:      effectiveDate,
		Reason:             req.Reason,
		ApprovingManagerID: managerUUID,
	}

	if err := qtx.Create(ctx, adjustment); err != nil {
		return RateAdjustmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return RateAdjustmentResponse{}, err
	}

	s.logger.Info("pay rate adjusted",
		zap.String("user_id", userID.String()),
		zap.String("new_rate", adjustment.NewRate.String()),
		zap.String("effective_date", req.EffectiveDate),
		zap.String("approved_by", managerID),
	)

	return mapToResponse(*adjustment), nil
}

func (s *service) ListForUser(ctx context.Context, userID string) (RateHistoryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return RateHistoryResponse{}, payrateerrors.ErrInvalidUserID
	}

	adjustments, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return RateHistoryResponse{}, mapRepositoryError(err)
	}

	resp := RateHistoryResponse{
		UserID:      userID,
		Adjustments: mapToListResponse(adjustments),
	}
	if rate, ok := CurrentRate(adjustments); ok {
		resp.CurrentRate = &rate
	}
	return resp, nil
}

func (s *service) ResolveCurrentRate(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	adjustments, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, false, mapRepositoryError(err)
	}
	rate, ok := CurrentRate(adjustments)
	return rate, ok, nil
}

func mapToResponse(a RateAdjustment) RateAdjustmentResponse {
	return RateAdjustmentResponse{
		ID:                 a.ID.String(),
		UserID:             a.UserID.String(),
		NewRate:            a.NewRate,
		EffectiveDate:      a.EffectiveDate.Format("2006-01-02"),
		Reason:             a.Reason,
		ApprovingManagerID: a.ApprovingManagerID.String(),
	}
}

func mapToListResponse(adjustments []RateAdjustment) []RateAdjustmentResponse {
	res := make([]RateAdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		res[i] = mapToResponse(a)
	}
	return res
}
