package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaveRequestsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLeaveRequestsRepo(pool *pgxpool.Pool, prom *observability.Prom) *LeaveRequestsRepo {
	return &LeaveRequestsRepo{pool: pool, prom: prom}
}

const selectLeaveSQL = `
	SELECT lr.id, lr.start_date, lr.end_date, lr.reason, lr.status,
	       lr.user_id, requester.username, lr.processed_by, COALESCE(processor.username, '')
	FROM leave_request lr
	JOIN "user" requester ON requester.id = lr.user_id
	LEFT JOIN "user" processor ON processor.id = lr.processed_by
`

func (r *LeaveRequestsRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	var id int64

	err := r.prom.ObserveDB("leave_requests.create", func() error {
		return r.pool.QueryRow(ctx, `
			INSERT INTO leave_request (start_date, end_date, reason, status, user_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			req.StartDate, req.EndDate, req.Reason, string(leave.StatusInprogress), req.RequesterID,
		).Scan(&id)
	})

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *LeaveRequestsRepo) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest

	err := r.prom.ObserveDB("leave_requests.get_by_id", func() error {
		return scanLeave(r.pool.QueryRow(ctx, selectLeaveSQL+` WHERE lr.id = $1`, id), &lr)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	return r.list(ctx, "leave_requests.list_by_requester", selectLeaveSQL+` WHERE lr.user_id = $1 ORDER BY lr.id ASC`, userID)
}

func (r *LeaveRequestsRepo) list(ctx context.Context, op, q string, args ...any) (items []leave.LeaveRequest, err error) {
	var rows pgx.Rows

	err = r.prom.ObserveDB(op, func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, q, args...)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items = make([]leave.LeaveRequest, 0)

	for rows.Next() {
		var lr leave.LeaveRequest
		if err = scanLeave(rows, &lr); err != nil {
			return nil, err
		}
		items = append(items, lr)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// SetStatus overwrites status and processor whatever the current status is.
func (r *LeaveRequestsRepo) SetStatus(ctx context.Context, id int64, status leave.Status, processorID int64) (leave.LeaveRequest, error) {
	var affected int64

	err := r.prom.ObserveDB("leave_requests.set_status", func() error {
		tag, e := r.pool.Exec(ctx,
			`UPDATE leave_request SET status = $1, processed_by = $2 WHERE id = $3`,
			string(status), processorID, id,
		)
		affected = tag.RowsAffected()
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

func scanLeave(row pgx.Row, lr *leave.LeaveRequest) error {
	var status string

	err := row.Scan(
		&lr.ID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&status,
		&lr.RequesterID,
		&lr.RequesterName,
		&lr.ProcessorID,
		&lr.ProcessorName,
	)
	if err != nil {
		return err
	}

	lr.Status, err = leave.ParseStatus(status)
	return err
}
