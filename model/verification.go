package model

const (
	// MetricStatusCode defines the metric that checks the HTTP response status code.
	MetricStatusCode = "status_code"
	// MetricTotalTime defines the metric that checks the total request time.
	MetricTotalTime = "total_time"
	// MetricSizeDownload defines the metric that checks the downloaded payload size.
	MetricSizeDownload = "size_download"
	// MetricGRPCHealth defines the optional metric that checks the gRPC health endpoint.
	MetricGRPCHealth = "grpc_health"
)

// Criteria is a model that represents the pass criteria of the health verification.
// Zero bounds leave the corresponding metric unbounded.
type Criteria struct {
	Path            string `yaml:"path" json:"path"`
	StatusCode      int    `yaml:"status_code" json:"statusCode"`
	MaxTotalTimeMs  int64  `yaml:"max_total_time_ms" json:"maxTotalTimeMs"`
	MaxSizeDownload int64  `yaml:"max_size_download" json:"maxSizeDownload"`
	GRPCHealth      bool   `yaml:"grpc_health" json:"grpcHealth"`
}

// VerificationResult is a model that represents the outcome of one metric of one verification pass.
// It is consumed immediately by the promotion controller and is not persisted.
type VerificationResult struct {
	Metric   string `json:"metric"`
	Observed string `json:"observed"`
	Passed   bool   `json:"passed"`
}
