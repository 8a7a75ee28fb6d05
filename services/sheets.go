package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/koreasuan/rainmaker-api/models"
)

// Dataset keys the external sheet endpoint serves. The announcements master
// list is the endpoint's default response and takes no sheet parameter.
const (
	DatasetAnnouncements = ""
	DatasetWeeklyReport  = "Weekly_Report"
	DatasetMonthlyQuote  = "Monthly_Quote"
	DatasetExpectedTasks = "Bids"
	DatasetGeneralReport = "General_Report"
)

// ReportDatasets are the tabs the report screen can request by name.
var ReportDatasets = map[string]bool{
	DatasetWeeklyReport:  true,
	DatasetMonthlyQuote:  true,
	DatasetExpectedTasks: true,
	DatasetGeneralReport: true,
}

// SheetClient talks to the externally-owned sheet script. It owns no data:
// reads return raw rows, writes are structured mutation requests the script
// applies to the authoritative store.
type SheetClient struct {
	baseURL string
	http    *http.Client
}

// NewSheetClient builds a client for the given script URL. The timeout is the
// only bound on a round trip; the service itself never imposes one beyond it.
func NewSheetClient(baseURL string, timeout time.Duration) *SheetClient {
	return &SheetClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw rows of one dataset. It reports transport and decode
// failures as errors so callers (and tests) can tell a failed fetch from a
// genuinely empty sheet; the view layer degrades both to an empty list.
func (c *SheetClient) Fetch(ctx context.Context, dataset string) ([]models.RawRecord, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("sheet endpoint URL is not configured")
	}

	target := c.baseURL
	if dataset != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "sheet=" + url.QueryEscape(dataset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", dataset, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fetch response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %q: HTTP %d: %s", dataset, resp.StatusCode, truncate(string(body), 300))
	}

	return decodeRows(body)
}

// decodeRows accepts both response shapes the script has used over time:
// a bare JSON array, or an envelope {"status": ..., "data": [...]}.
func decodeRows(body []byte) ([]models.RawRecord, error) {
	var rows []models.RawRecord
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}

	var envelope struct {
		Data []models.RawRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if envelope.Data == nil {
		return []models.RawRecord{}, nil
	}
	return envelope.Data, nil
}

// SubmitMutation sends one write request to the script. The script's CORS
// workaround requires text/plain even though the body is JSON; that quirk is
// part of the contract. A transport failure returns an error; a reachable
// script answering non-success returns a result with Success=false.
func (c *SheetClient) SubmitMutation(ctx context.Context, kind models.MutationKind, payload any) (models.MutationResult, error) {
	if c.baseURL == "" {
		return models.MutationResult{}, fmt.Errorf("sheet endpoint URL is not configured")
	}

	body, err := json.Marshal(map[string]any{"type": kind, "data": payload})
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("encode mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("build mutation request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("submit %s: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("read mutation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.MutationResult{}, fmt.Errorf("submit %s: HTTP %d: %s", kind, resp.StatusCode, truncate(string(raw), 300))
	}

	var decoded struct {
		Status  string          `json:"status"`
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return models.MutationResult{}, fmt.Errorf("decode mutation response: %w", err)
	}

	result := models.MutationResult{
		Success: decoded.Status == "success",
		Message: decoded.Message,
	}
	if decoded.Success != nil {
		result.Success = *decoded.Success
	}
	if len(decoded.Data) > 0 {
		var data any
		if err := json.Unmarshal(decoded.Data, &data); err == nil {
			result.Data = data
		}
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
