package leaves_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/leaves"
	"github.com/geocoder89/leavetrack/internal/notifications"
	"github.com/geocoder89/leavetrack/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *leaves.Service
	users    *memory.UsersRepo
	repo     *memory.LeaveRequestsRepo
	notifier *recordingNotifier
	employee user.Identity
	manager  user.Identity
	admin    user.Identity
}

type recordingNotifier struct {
	notices []notifications.DecisionNotice
	err     error
}

func (r *recordingNotifier) NotifyDecision(ctx context.Context, n notifications.DecisionNotice) error {
	r.notices = append(r.notices, n)
	return r.err
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		users:    store.Users(),
		repo:     store.LeaveRequests(),
		notifier: &recordingNotifier{},
	}
	f.svc = leaves.NewService(f.repo, leaves.WithNotifier(f.notifier))

	f.employee = f.mustUser(t, "emp", user.RoleEmployee)
	f.manager = f.mustUser(t, "mgr", user.RoleManager)
	f.admin = f.mustUser(t, "admin", user.RoleAdmin)

	return f
}

func (f *fixture) mustUser(t *testing.T, name string, role user.Role) user.Identity {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, "hash", role)
	require.NoError(t, err)
	return user.Identity{UserID: u.ID, Role: u.Role}
}

func vacation() leave.CreateRequest {
	return leave.CreateRequest{StartDate: "2026-07-01", EndDate: "2026-07-10", Reason: "Vacation"}
}

func TestCreate_ThenListShowsInprogress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)

	items, err := f.svc.List(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, leave.StatusInprogress, got.Status)
	assert.Nil(t, got.ProcessorID)
	assert.Equal(t, f.employee.UserID, got.RequesterID)
	assert.Equal(t, "Vacation", got.Reason)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name      string
		req       leave.CreateRequest
		wantField string
	}{
		{name: "missing_start", req: leave.CreateRequest{EndDate: "2026-07-10", Reason: "x"}, wantField: "start_date"},
		{name: "missing_end", req: leave.CreateRequest{StartDate: "2026-07-01", Reason: "x"}, wantField: "end_date"},
		{name: "blank_reason", req: leave.CreateRequest{StartDate: "2026-07-01", EndDate: "2026-07-10", Reason: "   "}, wantField: "reason"},
		{name: "unparseable_date", req: leave.CreateRequest{StartDate: "07/01/2026", EndDate: "2026-07-10", Reason: "x"}, wantField: "start_date"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.employee, tt.req)
			require.ErrorIs(t, err, leave.ErrValidation)

			var vErr *leave.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}

	items, err := f.svc.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, items, "nothing persisted on validation failure")
}

func TestCreate_EndBeforeStartIsAccepted(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.employee, leave.CreateRequest{StartDate: "2026-07-10", EndDate: "2026-07-01", Reason: "x"})
	assert.NoError(t, err)
}

func TestOperations_RequireSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	anon := user.Identity{}

	_, err := f.svc.Create(ctx, anon, vacation())
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	_, err = f.svc.List(ctx, anon)
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	_, err = f.svc.Decide(ctx, anon, 1, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestList_EmployeeSeesExactlyOwnRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	employees := []user.Identity{f.employee}
	for i := 0; i < 4; i++ {
		employees = append(employees, f.mustUser(t, fmt.Sprintf("emp%d", i), user.RoleEmployee))
	}

	rng := rand.New(rand.NewSource(7))
	want := map[int64]int{}

	for i := 0; i < 40; i++ {
		owner := employees[rng.Intn(len(employees))]
		_, err := f.svc.Create(ctx, owner, vacation())
		require.NoError(t, err)
		want[owner.UserID]++
	}

	all, err := f.svc.List(ctx, f.manager)
	require.NoError(t, err)
	assert.Len(t, all, 40)

	for _, e := range employees {
		mine, err := f.svc.List(ctx, e)
		require.NoError(t, err)
		assert.Len(t, mine, want[e.UserID])

		for _, lr := range mine {
			assert.Equal(t, e.UserID, lr.RequesterID)
		}
	}
}

func TestList_DecidersSeeAllInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.manager, vacation())
	require.NoError(t, err)

	for _, decider := range []user.Identity{f.manager, f.admin} {
		items, err := f.svc.List(ctx, decider)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID)
		assert.Equal(t, second.ID, items[1].ID)
	}
}

func TestDecide_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lr, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)

	approved, err := f.svc.Decide(ctx, f.manager, lr.ID, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessorID)
	assert.Equal(t, f.manager.UserID, *approved.ProcessorID)

	again, err := f.svc.Decide(ctx, f.manager, lr.ID, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, again.Status)

	rejected, err := f.svc.Decide(ctx, f.admin, lr.ID, leave.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, f.admin.UserID, *rejected.ProcessorID)

	require.Len(t, f.notifier.notices, 3)
	assert.Equal(t, "Rejected", f.notifier.notices[2].Status)
	assert.Equal(t, f.employee.UserID, f.notifier.notices[2].RequesterID)
}

func TestDecide_EmployeeForbiddenAndUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lr, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.employee, lr.ID, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrForbidden)

	got, err := f.repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusInprogress, got.Status)
	assert.Nil(t, got.ProcessorID)
	assert.Empty(t, f.notifier.notices)
}

func TestDecide_MissingRequestAndBadDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Decide(ctx, f.manager, 404, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrNotFound)

	lr, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.manager, lr.ID, leave.StatusInprogress)
	assert.ErrorIs(t, err, leave.ErrValidation)
}

func TestDecide_NotifierFailureDoesNotFailDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")

	lr, err := f.svc.Create(ctx, f.employee, vacation())
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, f.manager, lr.ID, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, decided.Status)
}
