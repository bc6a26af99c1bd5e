package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

// HTTPClient implements Client over the JSON REST API.
type HTTPClient struct {
	http    *http.Client
	baseURL string
	log     logging.Logger

	mu        sync.Mutex
	token     string
	serverNow string
}

func NewHTTPClient(baseURL string, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: baseURL,
		log:     log,
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ServerNow returns the server wall clock time observed on the most recent
// response (from the Date header). Before any response has been seen it
// falls back to the local clock.
func (c *HTTPClient) ServerNow() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serverNow == "" {
		return common.NowISO()
	}
	return c.serverNow
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentialsRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentialsRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Create requests carry the client-chosen id next to the payload fields.
type createExerciseRequest struct {
	ID string `json:"id"`
	models.ExercisePayload
}

type createExerciseRecordRequest struct {
	ID string `json:"id"`
	models.ExerciseRecordPayload
}

type createMetricRequest struct {
	ID string `json:"id"`
	models.MetricPayload
}

type createMetricRecordRequest struct {
	ID string `json:"id"`
	models.MetricRecordPayload
}

func (c *HTTPClient) CreateExercise(ctx context.Context, id string, p models.ExercisePayload) error {
	return c.do(ctx, http.MethodPost, "/exercises", nil, createExerciseRequest{ID: id, ExercisePayload: p}, nil)
}

func (c *HTTPClient) UpdateExercise(ctx context.Context, id string, p models.ExercisePayload) error {
	return c.do(ctx, http.MethodPut, "/exercises/"+id, nil, p, nil)
}

func (c *HTTPClient) ArchiveExercise(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/exercises/"+id, nil, nil, nil)
}

func (c *HTTPClient) ListExercises(ctx context.Context, opts ListOptions) (models.ListResponse[models.Exercise], error) {
	return list[models.Exercise](ctx, c, "/exercises", opts)
}

func (c *HTTPClient) CreateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error {
	return c.do(ctx, http.MethodPost, "/exercises/records", nil, createExerciseRecordRequest{ID: id, ExerciseRecordPayload: p}, nil)
}

func (c *HTTPClient) UpdateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error {
	return c.do(ctx, http.MethodPut, "/exercises/records/"+id, nil, p, nil)
}

func (c *HTTPClient) ArchiveExerciseRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/exercises/records/"+id, nil, nil, nil)
}

func (c *HTTPClient) ListExerciseRecords(ctx context.Context, opts ListOptions) (models.ListResponse[models.ExerciseRecord], error) {
	return list[models.ExerciseRecord](ctx, c, "/exercises/records", opts)
}

func (c *HTTPClient) CreateMetric(ctx context.Context, id string, p models.MetricPayload) error {
	return c.do(ctx, http.MethodPost, "/metrics", nil, createMetricRequest{ID: id, MetricPayload: p}, nil)
}

func (c *HTTPClient) UpdateMetric(ctx context.Context, id string, p models.MetricPayload) error {
	return c.do(ctx, http.MethodPut, "/metrics/"+id, nil, p, nil)
}

func (c *HTTPClient) ArchiveMetric(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/metrics/"+id, nil, nil, nil)
}

func (c *HTTPClient) ListMetrics(ctx context.Context, opts ListOptions) (models.ListResponse[models.Metric], error) {
	return list[models.Metric](ctx, c, "/metrics", opts)
}

func (c *HTTPClient) CreateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error {
	return c.do(ctx, http.MethodPost, "/metrics/records", nil, createMetricRecordRequest{ID: id, MetricRecordPayload: p}, nil)
}

func (c *HTTPClient) UpdateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error {
	return c.do(ctx, http.MethodPut, "/metrics/records/"+id, nil, p, nil)
}

func (c *HTTPClient) ArchiveMetricRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/metrics/records/"+id, nil, nil, nil)
}

func (c *HTTPClient) ListMetricRecords(ctx context.Context, opts ListOptions) (models.ListResponse[models.MetricRecord], error) {
	return list[models.MetricRecord](ctx, c, "/metrics/records", opts)
}

func list[T any](ctx context.Context, c *HTTPClient, path string, opts ListOptions) (models.ListResponse[T], error) {
	var resp models.ListResponse[T]
	err := c.do(ctx, http.MethodGet, path, opts.values(), nil, &resp)
	return resp, err
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if o.SortBy != "" {
		v.Set("sortBy", o.SortBy)
	}
	if o.SortOrder != "" {
		v.Set("sortOrder", o.SortOrder)
	}
	if o.IncludeArchived {
		v.Set("archived", "true")
	}
	if o.UpdatedAfter != "" {
		v.Set("updatedAfter", o.UpdatedAfter)
	}
	if o.DateFrom != "" {
		v.Set("dateFrom", o.DateFrom)
	}
	if o.DateTo != "" {
		v.Set("dateTo", o.DateTo)
	}
	return v
}

type errorResponse struct {
	Error string `json:"error"`
}

// do performs one request and decodes the response into result when it is
// non-nil. Status codes are mapped to the package sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug(ctx, "api request", "method", method, "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.observeServerTime(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var er errorResponse
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			return fmt.Errorf("request failed: %s", er.Error)
		}
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) observeServerTime(resp *http.Response) {
	date := resp.Header.Get("Date")
	if date == "" {
		return
	}
	t, err := http.ParseTime(date)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.serverNow = common.FormatISO(t)
	c.mu.Unlock()
}
