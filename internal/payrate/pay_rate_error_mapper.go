package payrate

import (
	"errors"
	"strings"

	payrateerrors "go-tutorhub/internal/payrate/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_pay_rate_effective" {
			return payrateerrors.ErrRateEffectiveDateAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_pay_rate_effective") {
		return payrateerrors.ErrRateEffectiveDateAlreadyExists
	}

	return err
}
