package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/test", "200"))

	ObserveHTTP("GET", "/api/test", 200, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/test", "200")))
}

func TestObserveHTTPUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveWebhook(t *testing.T) {
	ObserveWebhook("generate", time.Second, nil)
	ObserveWebhook("generate", time.Second, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(WebhookRequestDuration))
}

func TestObserveQuery(t *testing.T) {
	ObserveQuery("select", 2*time.Millisecond, false)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(DBQueryDuration), 1)
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	deducted := testutil.ToFloat64(CreditsDeductedTotal)
	refunded := testutil.ToFloat64(CreditsRefundedTotal)
	refreshed := testutil.ToFloat64(CreditSweepUsersTotal.WithLabelValues("refreshed"))

	recorder.CreditsDeducted(3)
	recorder.CreditsDeducted(0)
	recorder.CreditsRefunded(2)
	recorder.SweepFinished(4, 1, 0, time.Second)

	assert.Equal(t, deducted+3, testutil.ToFloat64(CreditsDeductedTotal))
	assert.Equal(t, refunded+2, testutil.ToFloat64(CreditsRefundedTotal))
	assert.Equal(t, refreshed+4, testutil.ToFloat64(CreditSweepUsersTotal.WithLabelValues("refreshed")))
}
