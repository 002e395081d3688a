package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetricsPerRoute(t *testing.T) {
	before := testutil.ToFloat64(requestCount.WithLabelValues("/healthz"))
	total := GetTotalRequestCount()

	IncrementRequestCount("/healthz")

	assert.Equal(t, before+1, testutil.ToFloat64(requestCount.WithLabelValues("/healthz")))
	assert.Equal(t, total+1, GetTotalRequestCount())
}

func TestErrorMetricsPerRoute(t *testing.T) {
	before := testutil.ToFloat64(requestErrors.WithLabelValues("/panelkeeper/api/v1/components"))
	total := GetTotalErrorCount()

	IncrementErrorCount("/panelkeeper/api/v1/components")

	assert.Equal(t, before+1, testutil.ToFloat64(requestErrors.WithLabelValues("/panelkeeper/api/v1/components")))
	assert.Equal(t, total+1, GetTotalErrorCount())
}

func TestInstallMetricsPerComponent(t *testing.T) {
	attempts := testutil.ToFloat64(installTotal.WithLabelValues("panel"))
	failures := testutil.ToFloat64(installFailures.WithLabelValues("panel"))

	RecordInstall("panel")
	RecordInstallFailure("panel")

	assert.Equal(t, attempts+1, testutil.ToFloat64(installTotal.WithLabelValues("panel")))
	assert.Equal(t, failures+1, testutil.ToFloat64(installFailures.WithLabelValues("panel")))
}
