package payslip

import (
	"errors"
	"strings"

	paysliperrors "go-tutorhub/internal/payslip/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const ownerPeriodConstraint = "uq_payslip_owner_period"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return paysliperrors.ErrPayslipNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == ownerPeriodConstraint {
			return paysliperrors.ErrPayslipAlreadyExists
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return paysliperrors.ErrPayslipAlreadyExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, ownerPeriodConstraint) {
		return paysliperrors.ErrPayslipAlreadyExists
	}

	return err
}
