package leaveerrors

import (
	"net/http"

	"go-timeoff/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave category",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidTimeWindow = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrTimeWindowNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"time window is only valid for PERMISSION and EXTERNAL_ASSIGNMENT",
		http.StatusBadRequest,
	)
	ErrMultiDayNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"this category is limited to a single day",
		http.StatusBadRequest,
	)
	ErrLeaveConflict = apperror.New(
		apperror.CodeConflict,
		"an overlapping leave request already exists",
		http.StatusConflict,
	)
	ErrPermissionMonthlyCapReached = apperror.New(
		apperror.CodeInsufficientBalance,
		"monthly permission request limit reached",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrIllegalTransition = apperror.New(
		apperror.CodeInvalidState,
		"decision is not legal in the request's current state",
		http.StatusConflict,
	)
	ErrRequestNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"leave request can no longer be edited",
		http.StatusConflict,
	)
	ErrDecisionForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to decide this request",
		http.StatusForbidden,
	)
	ErrEditForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to edit this request",
		http.StatusForbidden,
	)
	ErrDeleteForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to delete this request",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this request",
		http.StatusForbidden,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConcurrencyConflict,
		"leave request was modified concurrently, reload and retry",
		http.StatusConflict,
	)
)
