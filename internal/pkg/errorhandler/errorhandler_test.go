package errorhandler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vipadmin/vipadmin-api/internal/pkg/logger"
)

func TestHandleErrorLogsCauseButHidesIt(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "production")
	ctx := logger.WithContext(context.Background(), &l)

	rr := httptest.NewRecorder()
	HandleError(ctx, rr, http.StatusBadGateway, "DELIVERY_FAILED", "Could not deliver", errors.New("sendgrid returned status 401"))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "sendgrid") {
		t.Fatalf("cause leaked to client: %s", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "sendgrid returned status 401") || !strings.Contains(buf.String(), `"error_code":"DELIVERY_FAILED"`) {
		t.Fatalf("expected cause in log, got %s", buf.String())
	}
}

func TestHandlePanic(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "production")
	ctx := logger.WithContext(context.Background(), &l)

	rr := httptest.NewRecorder()
	HandlePanic(ctx, rr, "boom", "goroutine 1 [running]")

	if rr.Code != http.StatusInternalServerError || strings.Contains(rr.Body.String(), "goroutine") {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(buf.String(), "goroutine 1") {
		t.Fatalf("expected stack in log, got %s", buf.String())
	}
}
