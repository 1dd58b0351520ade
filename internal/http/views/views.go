package views

import (
	"embed"
	"html/template"
	"io"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
)

//go:embed templates/*.html
var files embed.FS

type View string

const (
	Login       View = "login.html"
	Dashboard   View = "dashboard.html"
	CreateLeave View = "create_leave.html"
	Error       View = "error.html"
)

type LoginPage struct {
	Flash string
}

type DashboardPage struct {
	Username    string
	AllRequests bool
	Requests    []leave.LeaveRequest
}

type CreateLeavePage struct {
	Error string
	Form  leave.CreateRequest
}

type ErrorPage struct {
	Title   string
	Message string
}

var templates = template.Must(template.ParseFS(files, "templates/*.html"))

// Templates is handed to gin so handlers can render with ctx.HTML.
func Templates() *template.Template {
	return templates
}

func Render(w io.Writer, name View, data any) error {
	return templates.ExecuteTemplate(w, string(name), data)
}
