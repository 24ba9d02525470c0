package model

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/httputil"
	"github.com/raonyguimaraes/skater/pkg/observability"
)

// defaultHTTPTimeout bounds a single predict request. Retries are handled
// above this timeout by httputil.Retry.
const defaultHTTPTimeout = 30 * time.Second

// DeployedModel is a client for a model served over HTTP. Predict posts the
// feature matrix as JSON to the endpoint and decodes the prediction matrix
// from the response:
//
//	POST <url>
//	{"data": [[...], ...]}
//	→ {"predictions": [[...], ...]}
//
// Transient failures (network errors, 5xx responses) are retried with
// exponential backoff. With a cache attached, repeated predictions for an
// identical matrix are served locally.
type DeployedModel struct {
	url         string
	targetNames []string
	http        *http.Client
	cache       *httputil.Cache
}

// DeployedOption configures a DeployedModel.
type DeployedOption func(*DeployedModel)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) DeployedOption {
	return func(m *DeployedModel) { m.http = c }
}

// WithPredictionCache attaches a cache for predict responses. The cache is
// keyed by endpoint URL and a content hash of the posted matrix.
func WithPredictionCache(c *httputil.Cache) DeployedOption {
	return func(m *DeployedModel) { m.cache = c }
}

// NewDeployedModel creates a client for the predict endpoint at url.
// The target names must describe the endpoint's output columns; they define
// the expected prediction width.
func NewDeployedModel(url string, targetNames []string, opts ...DeployedOption) (*DeployedModel, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	if len(targetNames) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "model must have at least one target name")
	}

	m := &DeployedModel{
		url:         url,
		targetNames: slices.Clone(targetNames),
		http:        &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// URL returns the predict endpoint.
func (m *DeployedModel) URL() string { return m.url }

// TargetNames returns the ordered output names.
func (m *DeployedModel) TargetNames() []string {
	return slices.Clone(m.targetNames)
}

type predictRequest struct {
	Data [][]float64 `json:"data"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Predict posts X to the endpoint and returns the decoded predictions.
// Responses are cached when a prediction cache is attached.
func (m *DeployedModel) Predict(ctx context.Context, X [][]float64) ([][]float64, error) {
	key := httputil.ContentKey(m.url, X)

	if m.cache != nil {
		var cached predictResponse
		if ok, _ := m.cache.Get(key, &cached); ok {
			observability.Cache().OnCacheHit(ctx, "prediction")
			return cached.Predictions, nil
		}
		observability.Cache().OnCacheMiss(ctx, "prediction")
	}

	start := time.Now()
	observability.Model().OnPredict(ctx, m.url, len(X))

	var resp predictResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return m.post(ctx, X, &resp)
	})
	if err != nil {
		observability.Model().OnPredictError(ctx, m.url, err)
		return nil, err
	}
	observability.Model().OnPredictComplete(ctx, m.url, len(X), time.Since(start))

	if err := checkShape(resp.Predictions, len(X), len(m.targetNames)); err != nil {
		return nil, err
	}

	if m.cache != nil {
		_ = m.cache.Set(key, resp)
	}
	return resp.Predictions, nil
}

func (m *DeployedModel) post(ctx context.Context, X [][]float64, out *predictResponse) error {
	body, err := json.Marshal(predictRequest{Data: X})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode predict request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build predict request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "predict request to %s", m.url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode predict response from %s", m.url)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "predict endpoint not found")
	case httputil.StatusRetryable(code):
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "predict endpoint returned status %d", code),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "predict endpoint returned status %d", code)
	}
}

// Ensure DeployedModel implements Model.
var _ Model = (*DeployedModel)(nil)
