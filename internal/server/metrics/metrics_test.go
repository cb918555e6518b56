package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.TokenPairIssued()
	m.TokenPairIssued()
	m.Rotation(OutcomeSuccess)
	m.Rotation(OutcomeUnknown)
	m.Rotation(OutcomeUnknown)
	m.Revocation("all")
	m.HTTPRequest(http.MethodPost, "/auth/login", 401)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tokensIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rotations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rotations.WithLabelValues(OutcomeUnknown)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.revocations.WithLabelValues("all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/auth/login", "401")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.TokenPairIssued()
	m.Rotation(OutcomeExpired)
	m.Revocation("single")
	m.HTTPRequest("GET", "/auth/me", 200)
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.TokenPairIssued()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gophauth_token_pairs_issued_total 1")
}
