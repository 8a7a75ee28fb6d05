package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koreasuan/rainmaker-api/models"
)

func TestFetchBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.URL.Query().Get("sheet"))
		w.Write([]byte(`[{"bidNtceNm": "공고1"}, {"bidNtceNm": "공고2"}]`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	rows, err := client.Fetch(context.Background(), DatasetAnnouncements)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "공고1", rows[0]["bidNtceNm"])
}

func TestFetchEnvelopeAndSheetParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DatasetWeeklyReport, r.URL.Query().Get("sheet"))
		w.Write([]byte(`{"status": "success", "data": [{"content": "보고1"}]}`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	rows, err := client.Fetch(context.Background(), DatasetWeeklyReport)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "보고1", rows[0]["content"])
}

func TestFetchAppendsToExistingQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The live script URL already carries a query string; the sheet
		// parameter must append, not clobber.
		assert.Equal(t, "abc", r.URL.Query().Get("key"))
		assert.Equal(t, DatasetMonthlyQuote, r.URL.Query().Get("sheet"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL+"?key=abc", 5*time.Second)
	rows, err := client.Fetch(context.Background(), DatasetMonthlyQuote)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchFailureIsDistinguishableFromEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	// The adapter reports the failure; only the snapshot layer degrades it
	// to an empty view.
	_, err := client.Fetch(context.Background(), DatasetAnnouncements)
	require.Error(t, err)
}

func TestSubmitMutationPostsTextPlainEnvelope(t *testing.T) {
	var captured struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"status": "success", "message": "updated", "data": {"row": 7}}`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	result, err := client.SubmitMutation(context.Background(), models.MutationUpdateStatus, models.StatusUpdatePayload{
		Date:    "2025-01-13",
		Content: "대전시 상수도 견적 협의",
		Manager: "박영업",
		Status:  "승인",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "updated", result.Message)
	assert.Equal(t, "UPDATE_STATUS", captured.Type)

	var payload models.StatusUpdatePayload
	require.NoError(t, json.Unmarshal(captured.Data, &payload))
	assert.Equal(t, "승인", payload.Status)
}

func TestSubmitMutationNonSuccessIsResultNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "row not found"}`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	result, err := client.SubmitMutation(context.Background(), models.MutationUpdateStatus, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "row not found", result.Message)
}

func TestSubmitMutationSuccessField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "message": "ok"}`))
	}))
	defer server.Close()

	client := NewSheetClient(server.URL, 5*time.Second)
	result, err := client.SubmitMutation(context.Background(), models.MutationAssignBid, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestClientRequiresBaseURL(t *testing.T) {
	client := NewSheetClient("", time.Second)
	_, err := client.Fetch(context.Background(), DatasetAnnouncements)
	assert.Error(t, err)
	_, err = client.SubmitMutation(context.Background(), models.MutationSalesLog, nil)
	assert.Error(t, err)
}
