package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCounters(t *testing.T) {
	PostsCreated.Inc()
	Logins.WithLabelValues("success").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "board_posts_created_total") {
		t.Fatalf("expected posts counter in output")
	}
	if testutil.ToFloat64(Logins.WithLabelValues("success")) < 1 {
		t.Fatalf("expected login counter incremented")
	}
}
