package memory

import (
	"context"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
)

type LeaveRequestsRepo struct {
	s *Store
}

func (r *LeaveRequestsRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req.ID = int64(len(r.s.leaves) + 1)
	if req.Status == "" {
		req.Status = leave.StatusInprogress
	}
	r.s.leaves = append(r.s.leaves, req)

	return r.s.withNamesLocked(req), nil
}

func (r *LeaveRequestsRepo) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.leaveIndexLocked(id)
	if i < 0 {
		return leave.LeaveRequest{}, leave.ErrNotFound
	}
	return r.s.withNamesLocked(r.s.leaves[i]), nil
}

func (r *LeaveRequestsRepo) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0, len(r.s.leaves))
	for _, lr := range r.s.leaves {
		out = append(out, r.s.withNamesLocked(lr))
	}
	return out, nil
}

func (r *LeaveRequestsRepo) ListByRequester(ctx context.Context, userID int64) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0)
	for _, lr := range r.s.leaves {
		if lr.RequesterID == userID {
			out = append(out, r.s.withNamesLocked(lr))
		}
	}
	return out, nil
}

func (r *LeaveRequestsRepo) SetStatus(ctx context.Context, id int64, status leave.Status, processorID int64) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.leaveIndexLocked(id)
	if i < 0 {
		return leave.LeaveRequest{}, leave.ErrNotFound
	}

	pid := processorID
	r.s.leaves[i].Status = status
	r.s.leaves[i].ProcessorID = &pid

	return r.s.withNamesLocked(r.s.leaves[i]), nil
}

func (s *Store) leaveIndexLocked(id int64) int {
	for i, lr := range s.leaves {
		if lr.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) withNamesLocked(lr leave.LeaveRequest) leave.LeaveRequest {
	lr.RequesterName = s.usernameLocked(lr.RequesterID)
	if lr.ProcessorID != nil {
		pid := *lr.ProcessorID
		lr.ProcessorID = &pid
		lr.ProcessorName = s.usernameLocked(pid)
	}
	return lr
}
