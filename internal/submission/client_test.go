package submission

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendableRecord() *models.ApplicationRecord {
	rec := models.NewApplicationRecord("app-send-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	rec.ApplicationNo = "TRGC-2026-3F0A81BC"
	rec.Values["name"] = "Asha Verma"
	rec.Values["email"] = "asha@example.com"
	rec.Values["postAppliedFor"] = "Assistant Professor (History)"
	rec.Values["resPapers"] = "4"
	rec.Values["resBooksInt"] = "1"
	return rec
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(endpoint, 5*time.Second, rules.Default(), "", logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func TestBuildPayload(t *testing.T) {
	rec := sendableRecord()
	document := []byte("%PDF-1.4 fake")

	payload := BuildPayload(rules.Default(), rec, document)

	assert.Equal(t, "TRGC-2026-3F0A81BC", payload["applicationNo"])
	assert.Equal(t, "Asha_Verma_Complete_App.pdf", payload["fileName"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(document), payload["pdfBase64"])
	assert.Equal(t, "asha@example.com", payload["email"])
	assert.Equal(t, "Assistant Professor (History)", payload["postAppliedFor"])
}

func TestBuildPayload_NestsResearchScores(t *testing.T) {
	rec := sendableRecord()

	payload := BuildPayload(rules.Default(), rec, []byte("%PDF-1.4"))

	research, ok := payload["research"].(map[string]interface{})
	require.True(t, ok, "payload must carry a research object")
	assert.Equal(t, "4", research["resPapers"])
	assert.Equal(t, "1", research["resBooksInt"])

	// The scores live only under the research object.
	assert.NotContains(t, payload, "resPapers")
	assert.NotContains(t, payload, "resBooksInt")
}

func TestClient_Send_Success(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), sendableRecord(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "TRGC-2026-3F0A81BC", received["applicationNo"])
	assert.NotEmpty(t, received["pdfBase64"])
	assert.Contains(t, received, "research")
}

func TestClient_Send_ClientErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), sendableRecord(), []byte("%PDF-1.4"))
	require.Error(t, err)
	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteSendFailed, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Send_ServerErrorMakesOneAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), sendableRecord(), []byte("%PDF-1.4"))
	require.Error(t, err)
	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteSendFailed, se.Code)
	// A 5xx is not retried: the endpoint script is not idempotent, so a
	// second POST could duplicate the submission row on the remote side.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Send_SchemaRejectsIncompletePayload(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "submission.schema.json")
	schema := `{
		"type": "object",
		"required": ["applicationNo", "name", "email", "pdfBase64", "fileName"],
		"properties": {
			"applicationNo": {"type": "string", "pattern": "^TRGC-[0-9]{4}-[0-9A-F]{8}$"}
		}
	}`
	require.NoError(t, os.WriteFile(schemaPath, []byte(schema), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid payload must not reach the endpoint")
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 5*time.Second, rules.Default(), schemaPath, logger.NewTestLogger(t))
	require.NoError(t, err)

	rec := sendableRecord()
	delete(rec.Values, "name")

	err = c.Send(context.Background(), rec, []byte("%PDF-1.4"))
	require.Error(t, err)
	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteSendFailed, se.Code)
}

func TestNewClient_MissingSchemaFile(t *testing.T) {
	_, err := NewClient("http://localhost:1", time.Second, rules.Default(), "/nonexistent/schema.json", logger.NewTestLogger(t))
	assert.Error(t, err)
}
