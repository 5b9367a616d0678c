package services

import (
	"errors"
	"net/http"

	"car-advisor/chat"
	"car-advisor/wizard"
)

// ServiceError 는 핸들러가 그대로 응답으로 옮길 수 있도록 HTTP 상태와 에러 코드를 담는다.
type ServiceError struct {
	StatusCode int
	ErrorCode  string
	Field      *wizard.FieldError
	Cause      error
}

func (e *ServiceError) Error() string {
	if e == nil {
		return "internal_error"
	}
	return e.ErrorCode
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// normalizeError 는 도메인 에러를 상태 코드와 에러 코드로 변환한다.
func normalizeError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var fieldErr *wizard.FieldError
	if errors.As(err, &fieldErr) {
		return &ServiceError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "invalid_selection", Field: fieldErr, Cause: err}
	}

	switch {
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "submission_in_flight", Cause: err}
	case errors.Is(err, wizard.ErrStaleSubmission):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "submission_abandoned", Cause: err}
	case errors.Is(err, wizard.ErrNotFinalStep):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "not_final_step", Cause: err}
	case errors.Is(err, wizard.ErrIllegalTransition):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "illegal_transition", Cause: err}
	case errors.Is(err, chat.ErrEmptyMessage):
		return &ServiceError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "empty_message", Cause: err}
	case errors.Is(err, chat.ErrNoSession):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "chat_not_open", Cause: err}
	case errors.Is(err, chat.ErrReplyPending):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "reply_pending", Cause: err}
	case errors.Is(err, chat.ErrStaleReply):
		return &ServiceError{StatusCode: http.StatusConflict, ErrorCode: "chat_changed", Cause: err}
	}
	return &ServiceError{StatusCode: http.StatusInternalServerError, ErrorCode: "internal_error", Cause: err}
}

var (
	errVehicleNotFound   = &ServiceError{StatusCode: http.StatusNotFound, ErrorCode: "vehicle_not_found"}
	errNoRecommendations = &ServiceError{StatusCode: http.StatusNotFound, ErrorCode: "no_recommendations"}
	errUnknownStep       = &ServiceError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "unknown_step"}
)
