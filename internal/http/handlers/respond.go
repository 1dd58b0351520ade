package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/leavetrack/internal/http/views"
	"github.com/gin-gonic/gin"
)

func RespondPage(ctx *gin.Context, status int, view views.View, data any) {
	ctx.HTML(status, string(view), data)
}

func RespondError(ctx *gin.Context, status int, title, message string) {
	RespondPage(ctx, status, views.Error, views.ErrorPage{Title: title, Message: message})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "Not found", message)
}

// RespondInternal logs err against the request and shows a generic page.
func RespondInternal(ctx *gin.Context, log *slog.Logger, err error) {
	_ = ctx.Error(err)
	log.ErrorContext(ctx.Request.Context(), "request failed",
		"path", ctx.Request.URL.Path,
		"err", err,
	)
	RespondError(ctx, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

func redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusFound, location)
}
