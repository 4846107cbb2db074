package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/pkg/apperror"
)

// errorPayload is the wire shape of every failure response.
type errorPayload struct {
	Error   apperror.Kind `json:"error"`
	Message string        `json:"message"`
	Status  int           `json:"status"`
}

// respondError renders any error through the apperror taxonomy.
func (s *Server) respondError(c *gin.Context, err error) {
	ae := apperror.From(err)
	if ae.Kind == apperror.KindInternal {
		cause := ae.Unwrap()
		if cause == nil {
			cause = ae
		}
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", cause.Error()),
		)
	}
	c.JSON(ae.Status, errorPayload{Error: ae.Kind, Message: ae.Message, Status: ae.Status})
}

// abortError renders the error and stops the handler chain.
func (s *Server) abortError(c *gin.Context, err error) {
	ae := apperror.From(err)
	c.AbortWithStatusJSON(ae.Status, errorPayload{Error: ae.Kind, Message: ae.Message, Status: ae.Status})
}

// bindError converts a gin binding failure into a 400 ValidationError.
func bindError(err error) error {
	return apperror.Validation(err.Error())
}
