package handlers_test

import (
	"context"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/http/middlewares"
	"github.com/geocoder89/leavetrack/internal/http/views"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	employee = user.Identity{UserID: 2, Role: user.RoleEmployee}
	manager  = user.Identity{UserID: 3, Role: user.RoleManager}
)

// newRouter mimics the production engine: templates loaded and, when id is
// authenticated, the identity the session middleware would have set.
func newRouter(id user.Identity) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.Use(func(c *gin.Context) {
		if id.Authenticated() {
			c.Set(middlewares.CtxIdentity, id)
		}
		c.Next()
	})
	return r
}

type fakeAuthenticator struct {
	loginFn func(ctx context.Context, username, password string) (user.Identity, error)
}

func (f *fakeAuthenticator) Login(ctx context.Context, username, password string) (user.Identity, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, username, password)
	}
	return user.Identity{}, nil
}

type fakeSessions struct {
	startErr  error
	started   *user.Identity
	destroyed int
	flash     string
	pending   string
}

func (f *fakeSessions) Start(c *gin.Context, id user.Identity) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = &id
	return nil
}

func (f *fakeSessions) Destroy(c *gin.Context) error {
	f.destroyed++
	return nil
}

func (f *fakeSessions) SetFlash(c *gin.Context, msg string) {
	f.flash = msg
}

func (f *fakeSessions) PopFlash(c *gin.Context) string {
	msg := f.pending
	f.pending = ""
	return msg
}

type fakeLeaveService struct {
	createFn func(ctx context.Context, id user.Identity, req leave.CreateRequest) (leave.LeaveRequest, error)
	listFn   func(ctx context.Context, id user.Identity) ([]leave.LeaveRequest, error)
	decideFn func(ctx context.Context, id user.Identity, requestID int64, decision leave.Status) (leave.LeaveRequest, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, id user.Identity, req leave.CreateRequest) (leave.LeaveRequest, error) {
	if f.createFn != nil {
		return f.createFn(ctx, id, req)
	}
	return leave.LeaveRequest{}, nil
}

func (f *fakeLeaveService) List(ctx context.Context, id user.Identity) ([]leave.LeaveRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveService) Decide(ctx context.Context, id user.Identity, requestID int64, decision leave.Status) (leave.LeaveRequest, error) {
	if f.decideFn != nil {
		return f.decideFn(ctx, id, requestID, decision)
	}
	return leave.LeaveRequest{}, nil
}

type fakeUsers struct {
	getFn func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{ID: id, Username: "someone"}, nil
}
