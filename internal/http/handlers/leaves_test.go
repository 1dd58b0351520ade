package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/http/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leavesRouter(id user.Identity, svc *fakeLeaveService, users *fakeUsers) http.Handler {
	if users == nil {
		users = &fakeUsers{}
	}
	h := handlers.NewLeavesHandler(svc, users, nil)
	r := newRouter(id)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/create_leave", h.CreateLeaveForm)
	r.POST("/create_leave", h.CreateLeave)
	r.GET("/approve_leave/:id", h.Approve)
	r.GET("/reject_leave/:id", h.Reject)
	return r
}

func TestDashboard_RendersListForIdentity(t *testing.T) {
	var listedFor user.Identity
	svc := &fakeLeaveService{listFn: func(ctx context.Context, id user.Identity) ([]leave.LeaveRequest, error) {
		listedFor = id
		return []leave.LeaveRequest{
			{ID: 7, Reason: "Vacation", Status: leave.StatusInprogress, StartDate: "2026-07-01", EndDate: "2026-07-10"},
		}, nil
	}}
	users := &fakeUsers{getFn: func(ctx context.Context, id int64) (user.User, error) {
		return user.User{ID: id, Username: "emma"}, nil
	}}

	w := httptest.NewRecorder()
	leavesRouter(employee, svc, users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, employee, listedFor)
	body := w.Body.String()
	assert.Contains(t, body, "Welcome emma")
	assert.Contains(t, body, "Vacation (Inprogress)")
	assert.Contains(t, body, "Your Leave Requests")
}

func TestDashboard_DeletedUserIsLoggedOut(t *testing.T) {
	users := &fakeUsers{getFn: func(ctx context.Context, id int64) (user.User, error) {
		return user.User{}, user.ErrNotFound
	}}

	w := httptest.NewRecorder()
	leavesRouter(employee, &fakeLeaveService{}, users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/logout", w.Header().Get("Location"))
}

func TestCreateLeave(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		createErr  error
		wantStatus int
		wantBody   string
		wantCalled bool
	}{
		{
			name:       "created",
			form:       url.Values{"start_date": {"2026-07-01"}, "end_date": {"2026-07-10"}, "reason": {"Vacation"}},
			wantStatus: http.StatusFound,
			wantCalled: true,
		},
		{
			name:       "missing reason never reaches the service",
			form:       url.Values{"start_date": {"2026-07-01"}, "end_date": {"2026-07-10"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "reason is required",
		},
		{
			name:       "service validation error",
			form:       url.Values{"start_date": {"July"}, "end_date": {"2026-07-10"}, "reason": {"Vacation"}},
			createErr:  &leave.ValidationError{Field: "start_date", Reason: "must be a date (YYYY-MM-DD)"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "start_date must be a date",
			wantCalled: true,
		},
		{
			name:       "store failure",
			form:       url.Values{"start_date": {"2026-07-01"}, "end_date": {"2026-07-10"}, "reason": {"Vacation"}},
			createErr:  errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &fakeLeaveService{createFn: func(ctx context.Context, id user.Identity, req leave.CreateRequest) (leave.LeaveRequest, error) {
				called = true
				assert.Equal(t, employee, id)
				assert.Equal(t, tt.form.Get("reason"), req.Reason)
				return leave.LeaveRequest{ID: 1}, tt.createErr
			}}

			w := httptest.NewRecorder()
			leavesRouter(employee, svc, nil).ServeHTTP(w, postForm("/create_leave", tt.form))

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, "/dashboard", w.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		decideErr    error
		wantStatus   int
		wantLocation string
		wantDecision leave.Status
		wantID       int64
	}{
		{name: "approve", path: "/approve_leave/4", wantStatus: http.StatusFound, wantLocation: "/dashboard", wantDecision: leave.StatusApproved, wantID: 4},
		{name: "reject", path: "/reject_leave/9", wantStatus: http.StatusFound, wantLocation: "/dashboard", wantDecision: leave.StatusRejected, wantID: 9},
		{name: "missing record is silent", path: "/approve_leave/99", decideErr: leave.ErrNotFound, wantStatus: http.StatusFound, wantLocation: "/dashboard", wantDecision: leave.StatusApproved, wantID: 99},
		{name: "forbidden role", path: "/approve_leave/1", decideErr: leave.ErrForbidden, wantStatus: http.StatusFound, wantLocation: "/dashboard", wantDecision: leave.StatusApproved, wantID: 1},
		{name: "no session", path: "/reject_leave/1", decideErr: leave.ErrUnauthorized, wantStatus: http.StatusFound, wantLocation: "/", wantDecision: leave.StatusRejected, wantID: 1},
		{name: "non numeric id", path: "/approve_leave/abc", wantStatus: http.StatusNotFound},
		{name: "store failure", path: "/reject_leave/2", decideErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantDecision: leave.StatusRejected, wantID: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotID       int64
				gotDecision leave.Status
			)
			svc := &fakeLeaveService{decideFn: func(ctx context.Context, id user.Identity, requestID int64, decision leave.Status) (leave.LeaveRequest, error) {
				gotID, gotDecision = requestID, decision
				return leave.LeaveRequest{ID: requestID, Status: decision}, tt.decideErr
			}}

			w := httptest.NewRecorder()
			leavesRouter(manager, svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			assert.Equal(t, tt.wantID, gotID)
			assert.Equal(t, tt.wantDecision, gotDecision)
		})
	}
}
