package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"capsolver"
)

func writeConfig(t *testing.T, cfg map[string]any) string {
	t.Helper()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	path := writeConfig(t, map[string]any{"api_key": "file-key", "poll_interval_ms": 500})

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.APIKey)
	require.Equal(t, capsolver.DefaultBaseURL, cfg.BaseURL)
	sc := cfg.sessionConfig()
	require.Equal(t, 500*time.Millisecond, sc.PollInterval)
	require.Equal(t, capsolver.DefaultPollTimeout, sc.PollTimeout)

	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envBaseURL, "http://localhost:1")
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.APIKey)
	require.Equal(t, "http://localhost:1", cfg.BaseURL)
}

func TestLoadConfig_MissingFileAndKey(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "api_key is required")

	t.Setenv(envAPIKey, "env-key")
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.APIKey)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv(envHome, "")
	require.Equal(t, "config.json", defaultConfigPath())
	t.Setenv(envHome, "/etc/capsolver")
	require.Equal(t, filepath.Join("/etc/capsolver", "config.json"), defaultConfigPath())
}

func newFakeService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		if req["clientKey"] != "K" {
			_, _ = io.WriteString(w, `{"errorId":1,"errorCode":"ERROR_KEY_DENIED_ACCESS","errorDescription":"denied"}`)
			return
		}
		switch r.URL.Path {
		case "/getBalance":
			_, _ = io.WriteString(w, `{"errorId":0,"balance":3.25,"packages":["basic"]}`)
		case "/createTask":
			_, _ = io.WriteString(w, `{"errorId":0,"taskId":"t-9","status":"idle"}`)
		case "/getTaskResult":
			_, _ = io.WriteString(w, `{"errorId":0,"status":"ready","solution":{"token":"tok"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := newRootCmd(newLogger(&logs))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_BalanceCreateResult(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	srv := newFakeService(t)
	path := writeConfig(t, map[string]any{"api_key": "K", "base_url": srv.URL, "poll_interval_ms": 10})

	out, err := runCLI(t, "", "balance", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "balance: 3.2500")
	require.Contains(t, out, "packages: basic")

	out, err = runCLI(t, `{"type":"FunCaptchaTaskProxyLess","websiteURL":"u","websitePublicKey":"pk"}`, "create", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, `"taskId": "t-9"`)

	out, err = runCLI(t, "", "result", "t-9", "--config", path)
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"tok"}`, out)

	out, err = runCLI(t, `{"type":"X"}`, "solve", "--config", path, "--timeout", "1s")
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"tok"}`, out)
}

func TestCLI_Errors(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	srv := newFakeService(t)
	path := writeConfig(t, map[string]any{"api_key": "wrong", "base_url": srv.URL})

	_, err := runCLI(t, "", "balance", "--config", path)
	require.True(t, capsolver.IsRemoteCode(err, "ERROR_KEY_DENIED_ACCESS"))

	_, err = runCLI(t, "{not json", "create", "--config", path)
	var mi *capsolver.MalformedInputError
	require.ErrorAs(t, err, &mi)
}

func TestMCP_ToolHandlers(t *testing.T) {
	srv := newFakeService(t)
	s, err := capsolver.New(capsolver.Config{APIKey: "K", BaseURL: srv.URL, PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	var logs bytes.Buffer
	ts := &toolServer{s: s, log: newLogger(&logs)}
	ctx := context.Background()

	_, bal, err := ts.balance(ctx, nil, balanceInput{})
	require.NoError(t, err)
	require.Equal(t, 3.25, bal.Balance)

	_, created, err := ts.createTask(ctx, nil, createTaskInput{Task: map[string]any{"type": "MtCaptchaTaskProxyLess"}})
	require.NoError(t, err)
	require.Equal(t, "t-9", created.TaskID)

	_, res, err := ts.taskResult(ctx, nil, taskResultInput{TaskID: created.TaskID, TimeoutSeconds: 1})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"token": "tok"}, res.Solution)

	require.NotNil(t, newMCPServer(ts))
}
