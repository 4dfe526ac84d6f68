package payrate

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=pay_rate_repo.go -destination=mock/pay_rate_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, adjustment *RateAdjustment) error
	FindAllByUser(ctx context.Context, userID string) ([]RateAdjustment, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn runs statements on the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, adjustment *RateAdjustment) error {
	return r.conn(ctx).Create(adjustment).Error
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]RateAdjustment, error) {
	var adjustments []RateAdjustment
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("effective_date DESC").
		Order("created_at DESC").
		Find(&adjustments).Error
	return adjustments, err
}
