package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier records decisions in the structured log; it stands in for a mail or chat provider.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyDecision(ctx context.Context, notice DecisionNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.leave_decision",
		"leave_request_id", notice.LeaveRequestID,
		"requester_id", notice.RequesterID,
		"requester", notice.RequesterName,
		"processor_id", notice.ProcessorID,
		"processor", notice.ProcessorName,
		"status", notice.Status,
	)
	return nil
}
