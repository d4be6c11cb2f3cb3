package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEndpoint(ts *httptest.Server) string {
	return strings.TrimPrefix(ts.URL, "http://")
}

func resultByMetric(t *testing.T, results []model.VerificationResult, metric string) model.VerificationResult {
	t.Helper()
	for _, r := range results {
		if r.Metric == metric {
			return r
		}
	}
	t.Fatalf("no result for metric %s", metric)
	return model.VerificationResult{}
}

func TestVerifyAllMetricsPass(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	s := NewHTTP()
	results, err := s.Verify(context.Background(), testEndpoint(ts), model.Criteria{
		Path:            "/healthz",
		StatusCode:      200,
		MaxTotalTimeMs:  2000,
		MaxSizeDownload: 100,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.True(t, res.Passed, "metric %s observed %s", res.Metric, res.Observed)
	}
}

func TestVerifyStatusCodeMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewHTTP()
	results, err := s.Verify(context.Background(), testEndpoint(ts), model.Criteria{Path: "/"})
	require.NoError(t, err)

	res := resultByMetric(t, results, model.MetricStatusCode)
	assert.False(t, res.Passed)
	assert.Equal(t, "500", res.Observed)
}

func TestVerifyDefaultsStatusToOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	s := NewHTTP()
	results, err := s.Verify(context.Background(), testEndpoint(ts), model.Criteria{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.MetricStatusCode, results[0].Metric)
	assert.True(t, results[0].Passed)
}

func TestVerifyTotalTimeExceeded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
	}))
	defer ts.Close()

	s := NewHTTP()
	results, err := s.Verify(context.Background(), testEndpoint(ts), model.Criteria{MaxTotalTimeMs: 1})
	require.NoError(t, err)

	res := resultByMetric(t, results, model.MetricTotalTime)
	assert.False(t, res.Passed)
}

func TestVerifySizeDownloadExceeded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer ts.Close()

	s := NewHTTP()
	results, err := s.Verify(context.Background(), testEndpoint(ts), model.Criteria{MaxSizeDownload: 16})
	require.NoError(t, err)

	res := resultByMetric(t, results, model.MetricSizeDownload)
	assert.False(t, res.Passed)
	assert.Equal(t, "64", res.Observed)
}
