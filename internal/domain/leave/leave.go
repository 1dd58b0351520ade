package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusInprogress Status = "Inprogress"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
)

// DateLayout is the calendar-date format leave dates are stored in.
const DateLayout = "2006-01-02"

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInprogress, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown leave status %q", s)
	}
}

// IsDecision reports whether a request may be moved into this status by a decider.
func (s Status) IsDecision() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	case StatusInprogress:
		return false
	default:
		return false
	}
}

type LeaveRequest struct {
	ID            int64  `json:"id"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Reason        string `json:"reason"`
	Status        Status `json:"status"`
	RequesterID   int64  `json:"requesterId"`
	RequesterName string `json:"requesterName,omitempty"`
	ProcessorID   *int64 `json:"processorId,omitempty"`
	ProcessorName string `json:"processorName,omitempty"`
}

func (r LeaveRequest) Pending() bool {
	return r.Status == StatusInprogress
}

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrUnauthorized = errors.New("no active session")
	ErrForbidden    = errors.New("role may not decide leave requests")
	ErrValidation   = errors.New("invalid leave request")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type CreateRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
	Reason    string `form:"reason" binding:"required"`
}

// Normalize trims the fields and checks that each is present and both dates parse.
// It does not enforce any ordering between the dates.
func (req CreateRequest) Normalize() (CreateRequest, error) {
	out := CreateRequest{
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
		Reason:    strings.TrimSpace(req.Reason),
	}

	switch {
	case out.StartDate == "":
		return out, &ValidationError{Field: "start_date", Reason: "is required"}
	case out.EndDate == "":
		return out, &ValidationError{Field: "end_date", Reason: "is required"}
	case out.Reason == "":
		return out, &ValidationError{Field: "reason", Reason: "is required"}
	}

	if _, err := time.Parse(DateLayout, out.StartDate); err != nil {
		return out, &ValidationError{Field: "start_date", Reason: "must be a date (YYYY-MM-DD)"}
	}
	if _, err := time.Parse(DateLayout, out.EndDate); err != nil {
		return out, &ValidationError{Field: "end_date", Reason: "must be a date (YYYY-MM-DD)"}
	}

	return out, nil
}

// NewFromCreateRequest builds a fresh, undecided request for the given requester.
func NewFromCreateRequest(req CreateRequest, requesterID int64) LeaveRequest {
	return LeaveRequest{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      req.Reason,
		Status:      StatusInprogress,
		RequesterID: requesterID,
	}
}
