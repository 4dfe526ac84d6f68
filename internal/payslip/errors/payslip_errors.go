package paysliperrors

import (
	"net/http"

	"go-tutorhub/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrQueryNotFound = apperror.New(
		apperror.CodeNotFound,
		"query not found",
		http.StatusNotFound,
	)
	ErrLineItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"line item not found or index out of range",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payslip status transition",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to perform this action on the payslip",
		http.StatusForbidden,
	)
	ErrPayslipImmutable = apperror.New(
		apperror.CodeForbidden,
		"payslip is locked and can no longer be changed",
		http.StatusForbidden,
	)
	ErrItemsNotEditable = apperror.New(
		apperror.CodeForbidden,
		"line items can only be edited while the payslip is DRAFT or QUERY_HANDLED",
		http.StatusForbidden,
	)
	ErrPayslipAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this pay period",
		http.StatusConflict,
	)
	ErrStaleSnapshot = apperror.New(
		apperror.CodeStaleSnapshot,
		"payslip was modified by someone else, reload and try again",
		http.StatusConflict,
	)
	ErrIndexRequiresVersion = apperror.New(
		apperror.CodeInvalidInput,
		"positional line item addressing requires an If-Match version",
		http.StatusBadRequest,
	)
	ErrEarningsReadOnly = apperror.New(
		apperror.CodeInvalidInput,
		"earnings are generated and can only be updated",
		http.StatusBadRequest,
	)
	ErrInvalidItemKind = apperror.New(
		apperror.CodeInvalidInput,
		"invalid line item type",
		http.StatusBadRequest,
	)
	ErrInvalidItemKey = apperror.New(
		apperror.CodeInvalidInput,
		"query item id must reference an existing line item or general-payslip",
		http.StatusBadRequest,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"amounts, hours and rates cannot be negative",
		http.StatusBadRequest,
	)
	ErrEmptyNote = apperror.New(
		apperror.CodeInvalidInput,
		"note cannot be empty",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip status",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
)
