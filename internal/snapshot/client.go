// Package snapshot fetches one point-in-time copy of the volunteer
// spreadsheet as CSV. The sheet is published to the web, so no credentials
// are involved; the client only has to survive Google's redirect quirks.
package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

// ErrUnavailable marks a run where no snapshot URL produced usable CSV.
// Fatal for the run; the previously persisted store remains authoritative.
var ErrUnavailable = errors.New("snapshot unavailable")

// Client downloads the published sheet CSV, falling back to the direct
// export URL when the published one misbehaves.
type Client struct {
	urls       []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a snapshot client trying the given URLs in order.
func NewClient(urls []string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		urls: urls,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and parses the first URL that yields CSV. Responses that
// turn out to be HTML (Google serves a redirect page instead of a 3xx when a
// sheet is republished) count as failures and the next URL is tried. When
// every URL fails the run is over: the error wraps [ErrUnavailable].
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRow, error) {
	var lastErr error
	for _, u := range c.urls {
		rows, err := c.fetchOne(ctx, u)
		if err != nil {
			c.logger.Warn("snapshot fetch failed, trying next source", "url", u, "error", err)
			lastErr = err
			continue
		}
		c.logger.Info("snapshot downloaded", "url", u, "rows", len(rows))
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func (c *Client) fetchOne(ctx context.Context, url string) ([]domain.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snapshot fetch: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}

	if looksLikeHTML(data) {
		return nil, errors.New("got HTML redirect page instead of CSV")
	}

	return ParseCSV(strings.NewReader(string(data)))
}

func looksLikeHTML(data []byte) bool {
	head := strings.TrimSpace(strings.ToLower(string(data[:min(len(data), 64)])))
	return strings.HasPrefix(head, "<html") || strings.HasPrefix(head, "<!doctype")
}

// ParseCSV reads header-mapped rows from CSV data. Column order is whatever
// the sheet currently uses; rows shorter than the header simply leave the
// trailing cells empty rather than being rejected.
func ParseCSV(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // volunteer sheets have ragged rows

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty snapshot")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", len(rows)+2, err)
		}

		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
