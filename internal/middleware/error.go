package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipes/backend/internal/service"
	"github.com/pageza/recipes/backend/internal/templates"
)

// ErrorHandler renders the error page for errors attached with c.Error and
// for panics. ErrNotFound becomes a 404, anything else a 500.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"request_id": RequestIDFrom(c),
					"panic":      err,
				}).Error("panic while handling request")
				renderError(c, http.StatusInternalServerError)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			log.WithError(err).WithField("request_id", RequestIDFrom(c)).Error("request failed")
		}
		renderError(c, status)
	}
}

// NotFound renders the 404 page; it is the router's NoRoute handler
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound)
}

func renderError(c *gin.Context, status int) {
	page := templates.Page{RequestID: RequestIDFrom(c)}
	name := templates.ServerErr
	page.Title = "Server Error"
	if status == http.StatusNotFound {
		name = templates.NotFound
		page.Title = "Not Found"
	}
	c.HTML(status, name, page)
}
