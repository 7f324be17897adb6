package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeview/cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newCodeServer(t *testing.T, status string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"` + status + `","lastHeartbeat":1599166210566}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestStatusCmd(t *testing.T, endpoint string) StatusCmd {
	t.Helper()
	keyring.MockInit()
	store := profile.NewStore(profile.NewPreferences(t.TempDir()), profile.NewKeyringSecrets())
	if endpoint != "" {
		require.NoError(t, store.SetEndpoint(endpoint))
	}
	return StatusCmd{store: store, client: http.DefaultClient}
}

func TestStatus_JSONReportsHealth(t *testing.T) {
	setupStdoutCapture(t)
	srv := newCodeServer(t, "alive")
	s := newTestStatusCmd(t, srv.URL)

	require.NoError(t, s.Check(context.Background(), StatusInput{Output: "json"}))

	var got statusResult
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(outBuf.Bytes()), &got))
	assert.True(t, got.Reachable)
	assert.Equal(t, "alive", got.Status)
	assert.NotEmpty(t, got.LastHeartbeat)
	assert.True(t, got.LoginRequired)
}

func TestStatus_TableShowsLabel(t *testing.T) {
	setupStdoutCapture(t)
	srv := newCodeServer(t, "expired")
	s := newTestStatusCmd(t, srv.URL)

	require.NoError(t, s.Check(context.Background(), StatusInput{}))

	out := outBuf.String()
	assert.Contains(t, out, "Idle")
	assert.Contains(t, out, "Login required")
}

func TestStatus_Unreachable(t *testing.T) {
	setupStdoutCapture(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	s := newTestStatusCmd(t, srv.URL)

	err := s.Check(context.Background(), StatusInput{})

	require.Error(t, err)
	assert.Contains(t, outBuf.String(), "Unreachable")
	srv.Close()
}

func TestStatus_RequiresEndpoint(t *testing.T) {
	s := newTestStatusCmd(t, "")

	err := s.Check(context.Background(), StatusInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no code-server address configured")
}

func TestStatus_RejectsUnknownOutput(t *testing.T) {
	s := newTestStatusCmd(t, "http://localhost:8080")

	assert.Error(t, s.Check(context.Background(), StatusInput{Output: "yaml"}))
}

func TestGetStatusDisplay_UnknownFallsBack(t *testing.T) {
	label, _ := getStatusDisplay("something-else")
	assert.Equal(t, "Unknown", label)
}
