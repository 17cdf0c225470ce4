package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// HTTPClient talks to the hosted record API over JSON.
type HTTPClient struct {
	baseURL   string
	projectID string
	publicKey string
	client    *http.Client
	logger    *slog.Logger
}

// HTTPConfig configures the HTTP gateway client.
type HTTPConfig struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// NewHTTPClient builds the gateway client used in production.
func NewHTTPClient(cfg HTTPConfig, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:   cfg.BaseURL,
		projectID: cfg.ProjectID,
		publicKey: cfg.PublicKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Wire shapes of the hosted API.

type fieldSpec struct {
	Field struct {
		Name string `json:"Name"`
	} `json:"field"`
}

type whereSpec struct {
	FieldName string   `json:"FieldName"`
	Operator  string   `json:"Operator"`
	Values    []string `json:"Values"`
}

type orderSpec struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

type pagingSpec struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type fetchParams struct {
	Fields  []fieldSpec `json:"fields,omitempty"`
	Where   []whereSpec `json:"where,omitempty"`
	OrderBy []orderSpec `json:"orderBy,omitempty"`
	Paging  *pagingSpec `json:"pagingInfo,omitempty"`
}

type recordsBody struct {
	Records []Record `json:"records"`
}

type deleteBody struct {
	RecordIDs []int `json:"RecordIds"`
}

type resultEnvelope struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

type responseEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Results []resultEnvelope `json:"results"`
}

func wireQuery(q Query) fetchParams {
	var p fetchParams
	for _, f := range q.Fields {
		var fs fieldSpec
		fs.Field.Name = f
		p.Fields = append(p.Fields, fs)
	}
	for _, c := range q.Where {
		p.Where = append(p.Where, whereSpec{FieldName: c.Field, Operator: c.Operator, Values: c.Values})
	}
	for _, o := range q.OrderBy {
		sort := "ASC"
		if o.Desc {
			sort = "DESC"
		}
		p.OrderBy = append(p.OrderBy, orderSpec{FieldName: o.Field, SortType: sort})
	}
	if q.Paging != nil {
		p.Paging = &pagingSpec{Limit: q.Paging.Limit, Offset: q.Paging.Offset}
	}
	return p
}

// FetchRecords retrieves records from a collection.
func (c *HTTPClient) FetchRecords(ctx context.Context, collection Collection, q Query) ([]Record, error) {
	env, err := c.call(ctx, "fetchRecords", collection, fmt.Sprintf("/records/%s/fetch", collection), wireQuery(q))
	if err != nil {
		return nil, err
	}
	var records []Record
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, &Error{Op: "fetchRecords", Collection: collection, Err: err}
		}
	}
	return records, nil
}

// GetRecordByID retrieves a single record.
func (c *HTTPClient) GetRecordByID(ctx context.Context, collection Collection, id int, q Query) (Record, error) {
	env, err := c.call(ctx, "getRecordById", collection, fmt.Sprintf("/records/%s/%d", collection, id), wireQuery(q))
	if err != nil {
		return nil, err
	}
	var record Record
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &record); err != nil {
			return nil, &Error{Op: "getRecordById", Collection: collection, Err: err}
		}
	}
	return record, nil
}

// CreateRecords inserts records, reporting per-record outcomes.
func (c *HTTPClient) CreateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error) {
	return c.batch(ctx, "createRecord", collection, fmt.Sprintf("/records/%s/create", collection), recordsBody{Records: records})
}

// UpdateRecords applies partial updates, reporting per-record outcomes. Each
// record must carry its Id.
func (c *HTTPClient) UpdateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error) {
	return c.batch(ctx, "updateRecord", collection, fmt.Sprintf("/records/%s/update", collection), recordsBody{Records: records})
}

// DeleteRecords removes records by id, reporting per-record outcomes.
func (c *HTTPClient) DeleteRecords(ctx context.Context, collection Collection, ids []int) (BatchResult, error) {
	return c.batch(ctx, "deleteRecord", collection, fmt.Sprintf("/records/%s/delete", collection), deleteBody{RecordIDs: ids})
}

func (c *HTTPClient) batch(ctx context.Context, op string, collection Collection, path string, body any) (BatchResult, error) {
	env, err := c.call(ctx, op, collection, path, body)
	if err != nil {
		return BatchResult{}, err
	}
	var result BatchResult
	for i, res := range env.Results {
		if res.Success {
			result.Succeeded = append(result.Succeeded, res.Data)
			continue
		}
		result.Failed = append(result.Failed, RecordFailure{Index: i, Message: res.Message, Errors: res.Errors})
	}
	return result, nil
}

func (c *HTTPClient) call(ctx context.Context, op string, collection Collection, path string, body any) (*responseEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Op: op, Collection: collection, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Op: op, Collection: collection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-Id", c.projectID)
	req.Header.Set("X-Public-Key", c.publicKey)
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Collection: collection, Err: err}
	}
	defer resp.Body.Close()

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &Error{Op: op, Collection: collection, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("gateway call",
		slog.String("op", op),
		slog.String("collection", string(collection)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("gateway: %s %s: %w", op, collection, httpx.ErrNotFound)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return nil, &Error{Op: op, Collection: collection, Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
