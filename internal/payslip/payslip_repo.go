package payslip

import (
	"context"
	"database/sql"

	paysliperrors "go-tutorhub/internal/payslip/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindByOwnerAndPeriod(ctx context.Context, userID, payPeriod string) (*Payslip, error)
	// FindAll returns one page of matches and the total number of matches.
	FindAll(ctx context.Context, filter QueryFilter) ([]Payslip, int64, error)
	ExistsForPeriod(ctx context.Context, userID, payPeriod string) (bool, error)
	// Update replaces the stored document only if its version still equals
	// expectedVersion, and bumps p.Version. A lost race is ErrStaleSnapshot.
	Update(ctx context.Context, p *Payslip, expectedVersion int64) error
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

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	return mapRepositoryError(r.conn(ctx).Create(p).Error)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &p, nil
}

func (r *repository) FindByOwnerAndPeriod(ctx context.Context, userID, payPeriod string) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Where("user_id = ? AND pay_period = ?", userID, payPeriod).
		First(&p).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, filter QueryFilter) ([]Payslip, int64, error) {
	db := r.conn(ctx).Model(&Payslip{})
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.PayPeriod != nil {
		db = db.Where("pay_period = ?", *filter.PayPeriod)
	}

	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, mapRepositoryError(err)
	}

	q := db.Order("pay_period DESC").Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var payslips []Payslip
	if err := q.Find(&payslips).Error; err != nil {
		return nil, 0, mapRepositoryError(err)
	}
	return payslips, total, nil
}

func (r *repository) ExistsForPeriod(ctx context.Context, userID, payPeriod string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payslip{}).
		Where("user_id = ? AND pay_period = ?", userID, payPeriod).
		Count(&count).Error
	return count > 0, mapRepositoryError(err)
}

func (r *repository) Update(ctx context.Context, p *Payslip, expectedVersion int64) error {
	p.Version = expectedVersion + 1

	res := r.conn(ctx).
		Model(p).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(p)
	if res.Error != nil {
		p.Version = expectedVersion
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		p.Version = expectedVersion
		return paysliperrors.ErrStaleSnapshot
	}
	return nil
}
