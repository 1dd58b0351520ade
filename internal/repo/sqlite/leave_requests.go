package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/observability"
)

type LeaveRequestsRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewLeaveRequestsRepo(db *sql.DB, prom *observability.Prom) *LeaveRequestsRepo {
	return &LeaveRequestsRepo{db: db, prom: prom}
}

const selectLeaveSQL = `
	SELECT lr.id, lr.start_date, lr.end_date, lr.reason, lr.status,
	       lr.user_id, requester.username, lr.processed_by, COALESCE(processor.username, '')
	FROM leave_request lr
	JOIN "user" requester ON requester.id = lr.user_id
	LEFT JOIN "user" processor ON processor.id = lr.processed_by
`

type scanner interface {
	Scan(dest ...any) error
}

func (r *LeaveRequestsRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	var res sql.Result

	err := r.prom.ObserveDB("leave_requests.create", func() error {
		var e error
		res, e = r.db.ExecContext(ctx, `
			INSERT INTO leave_request (start_date, end_date, reason, status, user_id)
			VALUES (?, ?, ?, ?, ?)`,
			req.StartDate, req.EndDate, req.Reason, string(leave.StatusInprogress), req.RequesterID,
		)
		return e
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *LeaveRequestsRepo) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest

	err := r.prom.ObserveDB("leave_requests.get_by_id", func() error {
		return scanLeave(r.db.QueryRowContext(ctx, selectLeaveSQL+` WHERE lr.id = ?`, id), &lr)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return lr, nil
}

func (r *LeaveRequestsRepo) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "leave_requests.list_all", selectLeaveSQL+` ORDER BY lr.id ASC`)
}

func (r *LeaveRequestsRepo) ListByRequester(ctx context.Context, userID int64) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "leave_requests.list_by_requester", selectLeaveSQL+` WHERE lr.user_id = ? ORDER BY lr.id ASC`, userID)
}

func (r *LeaveRequestsRepo) list(ctx context.Context, op, q string, args ...any) ([]leave.LeaveRequest, error) {
	var rows *sql.Rows

	err := r.prom.ObserveDB(op, func() error {
		var e error
		rows, e = r.db.QueryContext(ctx, q, args...)
		return e
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]leave.LeaveRequest, 0)

	for rows.Next() {
		var lr leave.LeaveRequest
		if err := scanLeave(rows, &lr); err != nil {
			return nil, err
		}
		items = append(items, lr)
	}

	return items, rows.Err()
}

// SetStatus overwrites status and processor whatever the current status is.
func (r *LeaveRequestsRepo) SetStatus(ctx context.Context, id int64, status leave.Status, processorID int64) (leave.LeaveRequest, error) {
	var affected int64

	err := r.prom.ObserveDB("leave_requests.set_status", func() error {
		res, e := r.db.ExecContext(ctx,
			`UPDATE leave_request SET status = ?, processed_by = ? WHERE id = ?`,
			string(status), processorID, id,
		)
		if e != nil {
			return e
		}
		affected, e = res.RowsAffected()
		return e
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if affected == 0 {
		return leave.LeaveRequest{}, leave.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func scanLeave(row scanner, lr *leave.LeaveRequest) error {
	var (
		status    string
		processor sql.NullInt64
	)

	err := row.Scan(
		&lr.ID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&status,
		&lr.RequesterID,
		&lr.RequesterName,
		&processor,
		&lr.ProcessorName,
	)
	if err != nil {
		return err
	}

	if processor.Valid {
		pid := processor.Int64
		lr.ProcessorID = &pid
	}

	lr.Status, err = leave.ParseStatus(status)
	return err
}
