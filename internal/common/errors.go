package common

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

// ErrorDomain tags ErrorInfo details produced by this service.
const ErrorDomain = "communitychat"

type ErrorCode string

const (
	CodeValidation      ErrorCode = "validation"
	CodeRoomNotFound    ErrorCode = "room_not_found"
	CodeRoomInactive    ErrorCode = "room_inactive"
	CodeAccountNotFound ErrorCode = "account_not_found"
	CodeAccessDenied    ErrorCode = "access_denied"
	CodeBanned          ErrorCode = "banned"
	CodeMuted           ErrorCode = "muted"
	CodeRateLimited     ErrorCode = "rate_limited"
	CodeNotFound        ErrorCode = "not_found"
	CodeUnauthenticated ErrorCode = "unauthenticated"
)

// ChatError is the typed error for every validation, authorization and
// rate-limit outcome. It carries machine-readable detail so callers can
// show "muted until" or "retry in" without parsing text.
type ChatError struct {
	Code       ErrorCode
	Message    string
	MutedUntil *time.Time
	RetryAfter time.Duration
}

func (e *ChatError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so errors.Is(err, ErrMuted) works for any muted error.
func (e *ChatError) Is(target error) bool {
	t, ok := target.(*ChatError)
	return ok && t.Code == e.Code
}

var (
	ErrRoomNotFound    = &ChatError{Code: CodeRoomNotFound, Message: "room not found"}
	ErrRoomInactive    = &ChatError{Code: CodeRoomInactive, Message: "room is not active"}
	ErrAccountNotFound = &ChatError{Code: CodeAccountNotFound, Message: "account not found"}
	ErrAccessDenied    = &ChatError{Code: CodeAccessDenied, Message: "access denied"}
	ErrBanned          = &ChatError{Code: CodeBanned, Message: "you are banned from this room"}
	ErrMuted           = &ChatError{Code: CodeMuted, Message: "you are muted in this room"}
	ErrRateLimited     = &ChatError{Code: CodeRateLimited, Message: "too many requests"}
	ErrNotFound        = &ChatError{Code: CodeNotFound, Message: "not found"}
	ErrUnauthenticated = &ChatError{Code: CodeUnauthenticated, Message: "authentication required"}
)

func Validation(format string, args ...interface{}) *ChatError {
	return &ChatError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func AccessDenied(message string) *ChatError {
	return &ChatError{Code: CodeAccessDenied, Message: message}
}

func Muted(until time.Time) *ChatError {
	u := until.UTC()
	return &ChatError{
		Code:       CodeMuted,
		Message:    fmt.Sprintf("you are muted until %s", u.Format(time.RFC3339)),
		MutedUntil: &u,
	}
}

func RateLimited(retryAfter time.Duration) *ChatError {
	return &ChatError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("too many requests, retry in %s", HumanizeWait(retryAfter)),
		RetryAfter: retryAfter,
	}
}

// HTTPStatus maps the error code onto the status the portal surfaces.
func (e *ChatError) HTTPStatus() int {
	switch e.Code {
	case CodeRoomNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeRoomInactive, CodeAccountNotFound, CodeValidation:
		return http.StatusBadRequest
	case CodeAccessDenied, CodeBanned, CodeMuted:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (e *ChatError) grpcCode() codes.Code {
	switch e.Code {
	case CodeRoomNotFound, CodeNotFound:
		return codes.NotFound
	case CodeValidation:
		return codes.InvalidArgument
	case CodeRoomInactive, CodeAccountNotFound:
		return codes.FailedPrecondition
	case CodeAccessDenied, CodeBanned, CodeMuted:
		return codes.PermissionDenied
	case CodeRateLimited:
		return codes.ResourceExhausted
	case CodeUnauthenticated:
		return codes.Unauthenticated
	default:
		return codes.Unknown
	}
}

// GRPCStatus lets grpc-go convert a returned *ChatError into a status with
// ErrorInfo and RetryInfo details.
func (e *ChatError) GRPCStatus() *status.Status {
	st := status.New(e.grpcCode(), e.Message)

	info := &errdetails.ErrorInfo{
		Reason: string(e.Code),
		Domain: ErrorDomain,
	}
	if e.MutedUntil != nil {
		info.Metadata = map[string]string{"muted_until": e.MutedUntil.UTC().Format(time.RFC3339Nano)}
	}

	var withDetails *status.Status
	var err error
	if e.RetryAfter > 0 {
		withDetails, err = st.WithDetails(info, &errdetails.RetryInfo{RetryDelay: durationpb.New(e.RetryAfter)})
	} else {
		withDetails, err = st.WithDetails(info)
	}
	if err != nil {
		return st
	}
	return withDetails
}

// TransportError wraps failures reaching the service at all. These are the
// only errors eligible for retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsChatError extracts a *ChatError from an error chain.
func AsChatError(err error) (*ChatError, bool) {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// FromStatus turns an RPC error back into a *ChatError (when the server
// attached ErrorInfo) or a *TransportError.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := AsChatError(err); ok {
		return ce
	}

	st, ok := status.FromError(err)
	if !ok {
		return &TransportError{Err: err}
	}

	var ce *ChatError
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			if d.GetDomain() != ErrorDomain {
				continue
			}
			if ce == nil {
				ce = &ChatError{}
			}
			ce.Code = ErrorCode(d.GetReason())
			ce.Message = st.Message()
			if raw, ok := d.GetMetadata()["muted_until"]; ok {
				if until, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
					ce.MutedUntil = &until
				}
			}
		case *errdetails.RetryInfo:
			if ce == nil {
				ce = &ChatError{}
			}
			ce.RetryAfter = d.GetRetryDelay().AsDuration()
		}
	}
	if ce != nil && ce.Code != "" {
		return ce
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return &ChatError{Code: CodeUnauthenticated, Message: st.Message()}
	case codes.InvalidArgument:
		return &ChatError{Code: CodeValidation, Message: st.Message()}
	case codes.NotFound:
		return &ChatError{Code: CodeNotFound, Message: st.Message()}
	case codes.PermissionDenied:
		return &ChatError{Code: CodeAccessDenied, Message: st.Message()}
	default:
		return &TransportError{Err: err}
	}
}

// HumanizeWait renders a wait as "45s" or "3m10s", rounded up to the second.
func HumanizeWait(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Second).String()
}
