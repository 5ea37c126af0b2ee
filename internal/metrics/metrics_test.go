package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(SettingsUpdates.WithLabelValues("metrics_test"))
	SettingsUpdates.WithLabelValues("metrics_test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SettingsUpdates.WithLabelValues("metrics_test")))

	UrgencyScores.Observe(85)

	w := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `priority_sorter_settings_updates_total{operation="metrics_test"}`)
	assert.Contains(t, body, "priority_sorter_urgency_score_bucket")
}
