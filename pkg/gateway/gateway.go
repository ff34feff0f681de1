// Package gateway talks to the vocabulary note backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/japaniel/vocanote/pkg/setlist"
	"github.com/japaniel/vocanote/pkg/wordset"
)

const (
	createPath = "/api/vocabularyNote/userCreate"
	listPath   = "/api/vocabularyNote/"
	notePath   = "/api/vocabularyNote/%d"

	statusSuccess = "Success"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 * 1024 * 1024
)

// Ack is the raw server acknowledgment.
type Ack struct {
	StatusCode int
	Body       json.RawMessage
}

// Partitions are the two server-side groupings of sets.
type Partitions struct {
	Admin []setlist.SetSummary
	User  []setlist.SetSummary
}

// Client issues one request per call. It does not retry, deduplicate or
// guard against concurrent submits.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Logger receives transport failures. nil means no logging.
	Logger *log.Logger
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// createRequest is the wire form of a word set.
type createRequest struct {
	Title   string   `json:"title"`
	Kanji   []string `json:"kanji"`
	Meaning []string `json:"meaning"`
	Gana    []string `json:"gana"`
}

// Validate checks a buffer before submission. It purges all-blank rows from
// buf before checking, so buf is modified even when validation fails.
func Validate(buf *wordset.Buffer) error {
	buf.Purge()
	if strings.TrimSpace(buf.Title()) == "" {
		return &ValidationError{Reason: "set title is empty"}
	}
	if buf.Len() == 0 {
		return &ValidationError{Reason: "set has no words"}
	}
	return nil
}

// Submit validates buf and posts it. A *ValidationError is returned without
// touching the network.
func (c *Client) Submit(ctx context.Context, buf *wordset.Buffer, token string) (Ack, error) {
	if err := Validate(buf); err != nil {
		return Ack{}, err
	}
	cols := buf.Columns()
	body, err := json.Marshal(createRequest{
		Title:   buf.Title(),
		Kanji:   cols.Script,
		Meaning: cols.Meaning,
		Gana:    cols.Phonetic,
	})
	if err != nil {
		return Ack{}, &UnknownError{Op: "submit", Err: err}
	}
	return c.do(ctx, "submit", http.MethodPost, createPath, token, body)
}

type noteJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

type listResponse struct {
	Status     string          `json:"status"`
	AdminNotes json.RawMessage `json:"adminNotes"`
	Notes      json.RawMessage `json:"notes"`
}

// FetchSets lists both partitions. A payload with an unexpected shape yields
// empty partitions rather than an error.
func (c *Client) FetchSets(ctx context.Context, token string) (Partitions, error) {
	ack, err := c.do(ctx, "fetch sets", http.MethodGet, listPath, token, nil)
	if err != nil {
		return Partitions{}, err
	}
	var resp listResponse
	if err := json.Unmarshal(ack.Body, &resp); err != nil || resp.Status != statusSuccess {
		c.logf("fetch sets: unexpected payload, using empty lists")
		return Partitions{}, nil
	}
	admin, okA := decodeNotes(resp.AdminNotes, setlist.Admin)
	user, okU := decodeNotes(resp.Notes, setlist.User)
	if !okA || !okU {
		c.logf("fetch sets: partitions are not arrays, using empty lists")
		return Partitions{}, nil
	}
	return Partitions{Admin: admin, User: user}, nil
}

func decodeNotes(raw json.RawMessage, origin setlist.Origin) ([]setlist.SetSummary, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var notes []noteJSON
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return nil, false
	}
	out := make([]setlist.SetSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, setlist.SetSummary{
			ID:        n.ID,
			Title:     n.Title,
			UpdatedAt: parseTime(n.UpdatedAt),
			Origin:    origin,
		})
	}
	return out, true
}

// parseTime accepts RFC 3339 and the common SQL datetime layout; anything
// else becomes the zero time.
func parseTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Backend binds a client to a session token for use by setlist.Manager.
type Backend struct {
	Client *Client
	Token  string
}

// Fetch lists both partitions with the bound token.
func (b Backend) Fetch(ctx context.Context) (admin, user []setlist.SetSummary, err error) {
	p, err := b.Client.FetchSets(ctx, b.Token)
	return p.Admin, p.User, err
}

// Delete removes set id with the bound token.
func (b Backend) Delete(ctx context.Context, id int64) error {
	_, err := b.Client.DeleteSet(ctx, b.Token, id)
	return err
}

// DeleteSet removes a set. Callers must have confirmed with the user.
func (c *Client) DeleteSet(ctx context.Context, token string, id int64) (Ack, error) {
	return c.do(ctx, "delete set", http.MethodDelete, fmt.Sprintf(notePath, id), token, nil)
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body []byte) (Ack, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return Ack{}, c.fail(&UnknownError{Op: op, Err: err})
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Ack{}, c.fail(&UnknownError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Ack{}, c.fail(&UnknownError{Op: op, Err: fmt.Errorf("read response: %w", err)})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Ack{}, c.fail(&NetworkError{Op: op, StatusCode: resp.StatusCode, Body: string(data)})
	}
	return Ack{StatusCode: resp.StatusCode, Body: json.RawMessage(data)}, nil
}

func (c *Client) fail(err error) error {
	c.logf("%v", err)
	return err
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
