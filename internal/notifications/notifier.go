package notifications

import "context"

type DecisionNotice struct {
	LeaveRequestID int64
	RequesterID    int64
	RequesterName  string
	ProcessorID    int64
	ProcessorName  string
	Status         string
}

// Notifier tells a requester that their leave request was decided.
type Notifier interface {
	NotifyDecision(ctx context.Context, notice DecisionNotice) error
}
