package errorhandler

import (
	"context"
	"net/http"

	"github.com/vipadmin/vipadmin-api/internal/pkg/logger"
	"github.com/vipadmin/vipadmin-api/internal/pkg/response"
)

// HandleError logs err with the request-scoped logger and sends the error envelope.
// The cause is logged only; clients see code and message.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Int("status_code", status)

	if err != nil {
		event = event.Err(err)
	}

	event.Msg(message)

	response.Error(w, status, code, message)
}

// HandlePanic logs a recovered panic with its stack and sends a 500
func HandlePanic(ctx context.Context, w http.ResponseWriter, panicErr interface{}, stackTrace string) {
	logger.FromContext(ctx).Error().
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Msg("Request panic error")

	response.InternalError(w)
}
