package capsolver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bytedance/sonic"
)

type pollOptions struct {
	interval    time.Duration
	timeout     time.Duration
	maxAttempts int
}

// PollOption tunes a single GetTaskResult call.
type PollOption func(*pollOptions)

// PollInterval overrides the session poll interval.
func PollInterval(d time.Duration) PollOption {
	return func(o *pollOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// PollTimeout overrides the session poll timeout. Negative disables it.
func PollTimeout(d time.Duration) PollOption {
	return func(o *pollOptions) {
		o.timeout = d
	}
}

// MaxAttempts bounds the number of getTaskResult calls. Zero means no
// bound.
func MaxAttempts(n int) PollOption {
	return func(o *pollOptions) {
		o.maxAttempts = n
	}
}

// GetTaskResult polls getTaskResult until the task is ready and decodes the
// solution into T. It stops on the first remote or transport error, when
// ctx is done, or when the poll timeout or attempt bound is reached.
//
// The pause between attempts is measured from the end of one attempt to the
// start of the next.
func GetTaskResult[T any](ctx context.Context, s *Session, taskID string, opts ...PollOption) (T, error) {
	var zero T
	if taskID == "" {
		return zero, &ValidationError{Task: endpointTaskResult, Field: "taskId", Err: ErrMissingField}
	}

	o := pollOptions{interval: s.cfg.PollInterval, timeout: s.cfg.PollTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	parent := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	// expired reports whether our own deadline, not the caller's, fired.
	expired := func() bool { return parent.Err() == nil && ctx.Err() != nil }

	start := time.Now()
	for attempt := 1; ; attempt++ {
		res, err := s.fetchTaskResult(ctx, taskID)
		if err != nil {
			if expired() {
				return zero, &TimeoutError{TaskID: taskID, Attempts: attempt, Elapsed: time.Since(start)}
			}
			return zero, err
		}

		s.log.Debug().
			Str("task_id", taskID).
			Int("attempt", attempt).
			Str("status", res.Status).
			Msg("capsolver poll")

		if res.Status == StatusReady {
			return decodeSolution[T](endpointTaskResult, res.Solution)
		}
		if o.maxAttempts > 0 && attempt >= o.maxAttempts {
			return zero, &TimeoutError{TaskID: taskID, Attempts: attempt, Elapsed: time.Since(start)}
		}

		t := time.NewTimer(o.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			if expired() {
				return zero, &TimeoutError{TaskID: taskID, Attempts: attempt, Elapsed: time.Since(start)}
			}
			return zero, ctx.Err()
		case <-t.C:
		}
	}
}

// Solve creates the task and waits for its solution. Tasks the service
// solves synchronously are decoded without polling.
func Solve[T any](ctx context.Context, s *Session, t Task, opts ...PollOption) (T, error) {
	created, err := s.CreateTask(ctx, t)
	if err != nil {
		var zero T
		return zero, err
	}
	return await[T](ctx, s, created, opts)
}

// SolveRaw is Solve for a caller-built task document, see CreateTaskRaw.
func SolveRaw[T any](ctx context.Context, s *Session, raw []byte, opts ...PollOption) (T, error) {
	created, err := s.CreateTaskRaw(ctx, raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return await[T](ctx, s, created, opts)
}

func await[T any](ctx context.Context, s *Session, created *TaskCreation, opts []PollOption) (T, error) {
	if created.Status == StatusReady && len(created.Solution) > 0 {
		return decodeSolution[T](endpointCreateTask, created.Solution)
	}
	return GetTaskResult[T](ctx, s, created.TaskID, opts...)
}

func decodeSolution[T any](endpoint string, raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 || string(raw) == "null" {
		return out, &DecodeError{Endpoint: endpoint, Err: errors.New("ready without solution")}
	}
	if err := sonic.ConfigStd.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Body: raw, Err: err}
	}
	return out, nil
}
