package capsolver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubServer stands in for the remote service and records every request.
type stubServer struct {
	*httptest.Server

	mu     sync.Mutex
	calls  map[string]int
	bodies map[string][]string
	times  map[string][]time.Time
}

// replyFunc returns the response body for the n-th (1-based) call to
// endpoint.
type replyFunc func(endpoint string, n int, body []byte) string

func newStub(t *testing.T, reply replyFunc) *stubServer {
	t.Helper()
	st := &stubServer{calls: map[string]int{}, bodies: map[string][]string{}, times: map[string][]time.Time{}}
	st.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		endpoint := strings.TrimPrefix(r.URL.Path, "/")

		st.mu.Lock()
		st.calls[endpoint]++
		n := st.calls[endpoint]
		st.bodies[endpoint] = append(st.bodies[endpoint], string(b))
		st.times[endpoint] = append(st.times[endpoint], time.Now())
		st.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply(endpoint, n, b))
	}))
	t.Cleanup(st.Close)
	return st
}

func (st *stubServer) count(endpoint string) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.calls[endpoint]
}

func (st *stubServer) total() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, c := range st.calls {
		n += c
	}
	return n
}

func (st *stubServer) body(endpoint string, i int) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.bodies[endpoint][i]
}

// arrivals returns when each request to endpoint was received.
func (st *stubServer) arrivals(endpoint string) []time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]time.Time(nil), st.times[endpoint]...)
}

func newTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	s, err := New(Config{
		APIKey:       "K",
		BaseURL:      baseURL,
		PollInterval: 20 * time.Millisecond,
		PollTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return s
}

const remoteErrorBody = `{"errorId":1,"errorCode":"ERROR_X","errorDescription":"something failed"}`
