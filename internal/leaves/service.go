package leaves

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/notifications"
	"github.com/geocoder89/leavetrack/internal/observability"
)

type Repo interface {
	Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error)
	ListAll(ctx context.Context) ([]leave.LeaveRequest, error)
	ListByRequester(ctx context.Context, userID int64) ([]leave.LeaveRequest, error)
	SetStatus(ctx context.Context, id int64, status leave.Status, processorID int64) (leave.LeaveRequest, error)
}

type Service struct {
	repo     Repo
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
}

type Option func(*Service)

func WithNotifier(n notifications.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(p *observability.Prom) Option {
	return func(s *Service) { s.prom = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(repo Repo, opts ...Option) *Service {
	s := &Service{repo: repo, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create files a new request for the session user with status Inprogress and no processor.
func (s *Service) Create(ctx context.Context, id user.Identity, req leave.CreateRequest) (leave.LeaveRequest, error) {
	if !id.Authenticated() {
		return leave.LeaveRequest{}, leave.ErrUnauthorized
	}

	req, err := req.Normalize()
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	created, err := s.repo.Create(ctx, leave.NewFromCreateRequest(req, id.UserID))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("create leave request: %w", err)
	}

	s.log.InfoContext(ctx, "leave_request.created", "leave_request_id", created.ID, "user_id", id.UserID)

	return created, nil
}

// List returns the requests visible to the session: employees see their own, deciders see all.
func (s *Service) List(ctx context.Context, id user.Identity) ([]leave.LeaveRequest, error) {
	if !id.Authenticated() {
		return nil, leave.ErrUnauthorized
	}

	var (
		items []leave.LeaveRequest
		err   error
	)

	if id.Role.SeesAllRequests() {
		items, err = s.repo.ListAll(ctx)
	} else {
		items, err = s.repo.ListByRequester(ctx, id.UserID)
	}

	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}

	return items, nil
}

// Decide sets the request's status and processor. A prior decision is overwritten;
// concurrent decisions on one request resolve as last write wins.
func (s *Service) Decide(ctx context.Context, id user.Identity, requestID int64, decision leave.Status) (leave.LeaveRequest, error) {
	if !id.Authenticated() {
		return leave.LeaveRequest{}, leave.ErrUnauthorized
	}

	if !id.Role.CanDecide() {
		return leave.LeaveRequest{}, leave.ErrForbidden
	}

	if !decision.IsDecision() {
		return leave.LeaveRequest{}, &leave.ValidationError{Field: "status", Reason: "must be Approved or Rejected"}
	}

	decided, err := s.repo.SetStatus(ctx, requestID, decision, id.UserID)
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("decide leave request %d: %w", requestID, err)
	}

	s.prom.ObserveDecision(string(decision))
	s.log.InfoContext(ctx, "leave_request.decided",
		"leave_request_id", decided.ID,
		"status", decided.Status,
		"processed_by", id.UserID,
	)

	s.notify(ctx, decided, id.UserID)

	return decided, nil
}

func (s *Service) notify(ctx context.Context, lr leave.LeaveRequest, processorID int64) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.NotifyDecision(ctx, notifications.DecisionNotice{
		LeaveRequestID: lr.ID,
		RequesterID:    lr.RequesterID,
		RequesterName:  lr.RequesterName,
		ProcessorID:    processorID,
		ProcessorName:  lr.ProcessorName,
		Status:         string(lr.Status),
	})

	if err != nil {
		s.log.WarnContext(ctx, "decision notification failed", "leave_request_id", lr.ID, "err", err)
	}
}
