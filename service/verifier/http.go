package verifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// RequestTimeout defines the timeout of a single probe request.
	RequestTimeout = 5 * time.Second
	// Retries defines how many times a transiently failing probe is repeated.
	Retries = 5
	// RetryDelay defines the fixed delay between the probe attempts.
	RetryDelay = 5 * time.Second
	// RetryWindow defines the cumulative deadline of all attempts of one probe.
	RetryWindow = 30 * time.Second
)

// NewHTTP creates a new instance of the health verifier.
func NewHTTP() HTTP {
	return HTTP{client: &http.Client{Timeout: RequestTimeout}}
}

// HTTP implements the health verifier with plain HTTP probes against the exposed endpoint.
type HTTP struct {
	client *http.Client
}

// Verify probes the endpoint once per configured metric and evaluates the observations
// against the criteria. The probes are read-only and run concurrently; the results are
// joined before returning.
func (s HTTP) Verify(ctx context.Context, endpoint string, criteria model.Criteria) ([]model.VerificationResult, error) {
	if criteria.StatusCode == 0 {
		criteria.StatusCode = http.StatusOK
	}
	metrics := configuredMetrics(criteria)
	results := make([]model.VerificationResult, len(metrics))
	g, ctx := errgroup.WithContext(ctx)
	for i, metric := range metrics {
		g.Go(func() error {
			res, err := s.probe(ctx, endpoint, metric, criteria)
			if err != nil {
				return fmt.Errorf("service.verifier.Verify: %s: %w", metric, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s HTTP) probe(ctx context.Context, endpoint, metric string, criteria model.Criteria) (model.VerificationResult, error) {
	if metric == model.MetricGRPCHealth {
		return s.probeGRPC(ctx, endpoint)
	}
	ctx, cancel := context.WithTimeout(ctx, RetryWindow)
	defer cancel()
	var lastErr error
	for attempt := 0; attempt <= Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryDelay):
			case <-ctx.Done():
				return model.VerificationResult{}, lastErr
			}
		}
		status, elapsed, size, err := s.request(ctx, endpoint, criteria.Path)
		if err != nil {
			// transient transport failure; the next attempt may succeed
			lastErr = err
			continue
		}
		return evaluate(metric, criteria, status, elapsed, size), nil
	}
	return model.VerificationResult{}, lastErr
}

func (s HTTP) request(ctx context.Context, endpoint, path string) (int, time.Duration, int64, error) {
	if path == "" {
		path = "/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+endpoint+path, nil)
	if err != nil {
		return 0, 0, 0, err
	}
	started := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, 0, 0, err
	}
	defer resp.Body.Close()
	size, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, 0, 0, err
	}
	return resp.StatusCode, time.Since(started), size, nil
}

func (s HTTP) probeGRPC(ctx context.Context, endpoint string) (model.VerificationResult, error) {
	res := model.VerificationResult{Metric: model.MetricGRPCHealth}
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return res, err
	}
	defer conn.Close()
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		res.Observed = err.Error()
		return res, nil
	}
	res.Observed = resp.Status.String()
	res.Passed = resp.Status == healthpb.HealthCheckResponse_SERVING
	return res, nil
}

func evaluate(metric string, criteria model.Criteria, status int, elapsed time.Duration, size int64) model.VerificationResult {
	res := model.VerificationResult{Metric: metric}
	switch metric {
	case model.MetricStatusCode:
		res.Observed = strconv.Itoa(status)
		res.Passed = status == criteria.StatusCode
	case model.MetricTotalTime:
		res.Observed = elapsed.String()
		res.Passed = elapsed <= time.Duration(criteria.MaxTotalTimeMs)*time.Millisecond
	case model.MetricSizeDownload:
		res.Observed = strconv.FormatInt(size, 10)
		res.Passed = size <= criteria.MaxSizeDownload
	}
	return res
}

// configuredMetrics lists the metrics that the criteria actually bound. The status code
// check is always on; an unset expectation defaults to 200.
func configuredMetrics(criteria model.Criteria) []string {
	metrics := []string{model.MetricStatusCode}
	if criteria.MaxTotalTimeMs > 0 {
		metrics = append(metrics, model.MetricTotalTime)
	}
	if criteria.MaxSizeDownload > 0 {
		metrics = append(metrics, model.MetricSizeDownload)
	}
	if criteria.GRPCHealth {
		metrics = append(metrics, model.MetricGRPCHealth)
	}
	return metrics
}
