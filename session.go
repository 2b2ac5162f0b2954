package capsolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Remote endpoints.
const (
	endpointBalance    = "getBalance"
	endpointCreateTask = "createTask"
	endpointTaskResult = "getTaskResult"
)

const maxResponseSize = 10 * 1024 * 1024 // 10MB limit

// Session talks to the service. It holds no mutable state after New and is
// safe for concurrent use.
type Session struct {
	cfg       Config
	baseURL   string
	http      Doer
	log       zerolog.Logger
	userAgent string

	recognition *Recognition
	token       *Token
}

// New creates a session with the given configuration.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg = cfg.withDefaults()
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("capsolver: api key is required")
	}
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("capsolver: invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("capsolver: invalid base url %q", cfg.BaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	o := options{
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       zerolog.Nop(),
		userAgent: defaultUA,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		cfg:       cfg,
		baseURL:   u.String(),
		http:      o.http,
		log:       o.log,
		userAgent: o.userAgent,
	}
	s.recognition = &Recognition{s: s}
	s.token = &Token{s: s}
	return s, nil
}

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// Recognition returns the classification task facade.
func (s *Session) Recognition() *Recognition { return s.recognition }

// Token returns the token task facade.
func (s *Session) Token() *Token { return s.token }

// Envelope carries the error metadata present on every response.
type Envelope struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
}

// Balance is the getBalance response.
type Balance struct {
	Envelope
	Balance  float64  `json:"balance"`
	Packages []string `json:"packages,omitempty"`
}

// TaskCreation is the createTask response. Solution is set when the service
// solved the task synchronously.
type TaskCreation struct {
	Envelope
	TaskID   string          `json:"taskId"`
	Status   string          `json:"status,omitempty"`
	Solution json.RawMessage `json:"solution,omitempty"`
}

// Task statuses.
const (
	StatusIdle       = "idle"
	StatusProcessing = "processing"
	StatusReady      = "ready"
)

type taskResult struct {
	Envelope
	Status   string          `json:"status"`
	Solution json.RawMessage `json:"solution,omitempty"`
}

type clientKeyRequest struct {
	ClientKey string `json:"clientKey"`
}

type createTaskRequest struct {
	ClientKey string `json:"clientKey"`
	Task      any    `json:"task"`
}

type taskResultRequest struct {
	ClientKey string `json:"clientKey"`
	TaskID    string `json:"taskId"`
}

// Balance fetches the account balance.
func (s *Session) Balance(ctx context.Context) (*Balance, error) {
	var out Balance
	if err := s.post(ctx, endpointBalance, clientKeyRequest{ClientKey: s.cfg.APIKey}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask validates the task and submits it.
func (s *Session) CreateTask(ctx context.Context, t Task) (*TaskCreation, error) {
	if t == nil {
		return nil, &ValidationError{Task: "task", Field: "type", Err: ErrMissingField}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return s.createTask(ctx, t)
}

// CreateTaskRaw submits a caller-built task document without validation.
// raw may be a bare task object or a full {"task": {...}} request; any
// clientKey it carries is replaced by the session key.
func (s *Session) CreateTaskRaw(ctx context.Context, raw []byte) (*TaskCreation, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedInputError{Err: err}
	}
	if doc == nil {
		return nil, &MalformedInputError{Err: errors.New("task must be a json object")}
	}
	task := json.RawMessage(raw)
	if inner, ok := doc["task"]; ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(inner, &fields); err != nil {
			return nil, &MalformedInputError{Err: fmt.Errorf("task: %w", err)}
		}
		if fields == nil {
			return nil, &MalformedInputError{Err: errors.New("task must be a json object")}
		}
		task = inner
	}
	return s.createTask(ctx, task)
}

func (s *Session) createTask(ctx context.Context, task any) (*TaskCreation, error) {
	var out TaskCreation
	if err := s.post(ctx, endpointCreateTask, createTaskRequest{ClientKey: s.cfg.APIKey, Task: task}, &out); err != nil {
		return nil, err
	}
	if out.TaskID == "" {
		return nil, &DecodeError{Endpoint: endpointCreateTask, Err: errors.New("missing taskId")}
	}
	return &out, nil
}

// fetchTaskResult performs a single getTaskResult call.
func (s *Session) fetchTaskResult(ctx context.Context, taskID string) (*taskResult, error) {
	var out taskResult
	if err := s.post(ctx, endpointTaskResult, taskResultRequest{ClientKey: s.cfg.APIKey, TaskID: taskID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends body to endpoint and classifies the response envelope.
func (s *Session) post(ctx context.Context, endpoint string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/"+endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	s.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(rb)).
		Msg("capsolver response")

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env Envelope
	if err := sonic.ConfigStd.Unmarshal(rb, &env); err != nil {
		if !ok {
			return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		}
		return &DecodeError{Endpoint: endpoint, Body: rb, Err: err}
	}
	if env.ErrorID != 0 {
		return &RemoteError{
			Endpoint:    endpoint,
			ErrorID:     env.ErrorID,
			Code:        env.ErrorCode,
			Description: env.ErrorDescription,
		}
	}
	if !ok {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	if out == nil {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(rb, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Body: rb, Err: err}
	}
	return nil
}
