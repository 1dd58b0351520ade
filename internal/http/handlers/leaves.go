package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/http/middlewares"
	"github.com/geocoder89/leavetrack/internal/http/views"
	"github.com/gin-gonic/gin"
)

type LeaveService interface {
	Create(ctx context.Context, id user.Identity, req leave.CreateRequest) (leave.LeaveRequest, error)
	List(ctx context.Context, id user.Identity) ([]leave.LeaveRequest, error)
	Decide(ctx context.Context, id user.Identity, requestID int64, decision leave.Status) (leave.LeaveRequest, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type LeavesHandler struct {
	leaves LeaveService
	users  UserLookup
	log    *slog.Logger
}

func NewLeavesHandler(leaves LeaveService, users UserLookup, log *slog.Logger) *LeavesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LeavesHandler{leaves: leaves, users: users, log: log}
}

func (h *LeavesHandler) Dashboard(ctx *gin.Context) {
	id := middlewares.IdentityFromContext(ctx)
	rctx := ctx.Request.Context()

	u, err := h.users.GetByID(rctx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// session outlived its user
			redirect(ctx, "/logout")
			return
		}
		RespondInternal(ctx, h.log, err)
		return
	}

	items, err := h.leaves.List(rctx, id)
	if err != nil {
		if h.handleAccessError(ctx, err) {
			return
		}
		RespondInternal(ctx, h.log, err)
		return
	}

	RespondPage(ctx, http.StatusOK, views.Dashboard, views.DashboardPage{
		Username:    u.Username,
		AllRequests: id.Role.SeesAllRequests(),
		Requests:    items,
	})
}

func (h *LeavesHandler) CreateLeaveForm(ctx *gin.Context) {
	RespondPage(ctx, http.StatusOK, views.CreateLeave, views.CreateLeavePage{})
}

func (h *LeavesHandler) CreateLeave(ctx *gin.Context) {
	var req leave.CreateRequest

	if fields := BindForm(ctx, &req); fields != nil {
		RespondPage(ctx, http.StatusBadRequest, views.CreateLeave, views.CreateLeavePage{
			Error: joinFieldErrors(fields),
			Form:  req,
		})
		return
	}

	_, err := h.leaves.Create(ctx.Request.Context(), middlewares.IdentityFromContext(ctx), req)
	if err != nil {
		var verr *leave.ValidationError
		if errors.As(err, &verr) {
			RespondPage(ctx, http.StatusBadRequest, views.CreateLeave, views.CreateLeavePage{
				Error: verr.Error(),
				Form:  req,
			})
			return
		}
		if h.handleAccessError(ctx, err) {
			return
		}
		RespondInternal(ctx, h.log, err)
		return
	}

	redirect(ctx, "/dashboard")
}

func (h *LeavesHandler) Approve(ctx *gin.Context) {
	h.decide(ctx, leave.StatusApproved)
}

func (h *LeavesHandler) Reject(ctx *gin.Context) {
	h.decide(ctx, leave.StatusRejected)
}

func (h *LeavesHandler) decide(ctx *gin.Context, decision leave.Status) {
	requestID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		RespondNotFound(ctx, "No such leave request.")
		return
	}

	_, err = h.leaves.Decide(ctx.Request.Context(), middlewares.IdentityFromContext(ctx), requestID, decision)
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			redirect(ctx, "/dashboard")
			return
		}
		if h.handleAccessError(ctx, err) {
			return
		}
		RespondInternal(ctx, h.log, err)
		return
	}

	redirect(ctx, "/dashboard")
}

// handleAccessError redirects for session and role failures the guards did not catch.
func (h *LeavesHandler) handleAccessError(ctx *gin.Context, err error) bool {
	switch {
	case errors.Is(err, leave.ErrUnauthorized):
		redirect(ctx, "/")
		return true
	case errors.Is(err, leave.ErrForbidden):
		redirect(ctx, "/dashboard")
		return true
	default:
		return false
	}
}
