package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasterly/qrimage/store"
)

func newTestHistory(t *testing.T) *store.HistoryStore {
	t.Helper()
	s, err := store.NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHistoryRecordsGenerations(t *testing.T) {
	history := newTestHistory(t)
	h := newTestHandler(t, history)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/qr?content=https://example.com/checkout&size=128", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "https://example.com/checkout", recs[0].Content)
	assert.Equal(t, 128, recs[0].Size)
	assert.Equal(t, "medium", recs[0].Level)
	assert.NotEmpty(t, recs[0].ID)
}

func TestHistoryNotRecordedOnFailure(t *testing.T) {
	history := newTestHistory(t)
	h := newTestHandler(t, history)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/qr?content=&size=128", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Empty(t, recs)
}

func TestHistorySearch(t *testing.T) {
	history := newTestHistory(t)
	h := newTestHandler(t, history)

	for _, content := range []string{"https://shop.example.com/checkout", "https://docs.example.com/guide"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/qr?content="+content, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/history/search?q=checkout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "https://shop.example.com/checkout", recs[0].Content)
}

func TestHistorySearchRequiresQuery(t *testing.T) {
	h := newTestHandler(t, newTestHistory(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/history/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, url := range []string{"/history", "/history/search?q=x"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, url)
	}
}

func TestStatus(t *testing.T) {
	history := newTestHistory(t)
	h := newTestHandler(t, history)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/qr?content=https://example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, 1, resp.Generated)
	require.Len(t, resp.Daily, 1)
	assert.Equal(t, 1, resp.Daily[0].Count)
}

func TestStatusWithoutHistory(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Generated)
	assert.Empty(t, resp.Daily)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
