package payrateerrors

import (
	"go-tutorhub/internal/shared/apperror"
	"net/http"
)

var (
	ErrRateEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A rate adjustment for this user and effective date already exists",
		http.StatusConflict,
	)

	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"Rate cannot be negative",
		http.StatusBadRequest,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid approving manager ID",
		http.StatusBadRequest,
	)

	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
