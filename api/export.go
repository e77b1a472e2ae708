package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ExportActivitiesCSV streams the CSV export of the activity log to w.
// The response is raw CSV, not the JSON envelope.
func (c *Client) ExportActivitiesCSV(ctx context.Context, w io.Writer) error {
	return c.download(ctx, "/api/export/activities", w)
}

// ExportSummariesCSV streams the CSV export of the weekly summaries to w.
func (c *Client) ExportSummariesCSV(ctx context.Context, w io.Writer) error {
	return c.download(ctx, "/api/export/summaries", w)
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
