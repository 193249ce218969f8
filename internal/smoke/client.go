// Package smoke drives a running server through scripted user journeys
// and checks the observable results.
package smoke

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

	"github.com/okian/skillfolio/pkg/logger"
)

const (
	defaultPollInterval = 20 * time.Millisecond
	defaultPollTimeout  = 5 * time.Second
	defaultHTTPTimeout  = 10 * time.Second
)

// Client is a thin JSON client for the session API.
type Client struct {
	base         string
	http         *http.Client
	logger       logger.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient returns a Client for the server at base, e.g. "http://localhost:9080".
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:         strings.TrimRight(base, "/"),
		http:         &http.Client{Timeout: defaultHTTPTimeout},
		logger:       logger.Nop(),
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type skill struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level,omitempty"`
	PendingLevel string `json:"pending_level,omitempty"`
}

type snapshot struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Categories map[string]struct {
		Available []skill `json:"available"`
		Selected  []skill `json:"selected"`
	} `json:"categories"`
}

type cell struct {
	SkillID string `json:"skill_id"`
	Score   *int   `json:"score"`
}

type matrix struct {
	Evidence bool              `json:"evidence"`
	Rows     map[string][]cell `json:"rows"`
}

type skillList struct {
	Skills []skill `json:"skills"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusError reports a response whose status was not the expected one.
type StatusError struct {
	Method string
	Path   string
	Status int
	Want   int
	Code   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: got %d (%s), want %d", e.Method, e.Path, e.Status, e.Code, e.Want)
}

// Is matches ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

// do sends body as JSON and decodes the response into out when the status is want.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode != want {
		var e apiError
		_ = json.Unmarshal(raw, &e)
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Want: want, Code: e.Code}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) startSession(ctx context.Context) (snapshot, error) {
	var snap snapshot
	err := c.do(ctx, http.MethodPost, "/sessions", nil, http.StatusCreated, &snap)
	return snap, err
}

func (c *Client) endSession(ctx context.Context, sid string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+sid, nil, http.StatusNoContent, nil)
}

func (c *Client) createSkill(ctx context.Context, sid, name string) (skill, error) {
	var sk skill
	err := c.do(ctx, http.MethodPost, "/sessions/"+sid+"/skills", map[string]string{"name": name}, http.StatusCreated, &sk)
	return sk, err
}

func (c *Client) selectSkill(ctx context.Context, sid, id string, lvl int) (skill, error) {
	var sk skill
	err := c.do(ctx, http.MethodPost, "/sessions/"+sid+"/skills/"+id+"/select", map[string]int{"level": lvl}, http.StatusOK, &sk)
	return sk, err
}

func (c *Client) deselectSkill(ctx context.Context, sid, id string) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+sid+"/skills/"+id+"/deselect", nil, http.StatusOK, nil)
}

func (c *Client) available(ctx context.Context, sid, q string) ([]skill, error) {
	var out skillList
	path := "/sessions/" + sid + "/skills/available"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out)
	return out.Skills, err
}

func (c *Client) matrix(ctx context.Context, sid, category string) (matrix, error) {
	var m matrix
	err := c.do(ctx, http.MethodGet, "/sessions/"+sid+"/evaluations/"+category, nil, http.StatusOK, &m)
	return m, err
}

func (c *Client) submitEvidence(ctx context.Context, sid, evidenceID, category string) error {
	body := map[string]string{"evidence_id": evidenceID, "category": category}
	return c.do(ctx, http.MethodPost, "/sessions/"+sid+"/evidence", body, http.StatusAccepted, nil)
}

// poll calls check until it reports done, fails, or the poll timeout passes.
func (c *Client) poll(ctx context.Context, what string, check func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrTimeout, what)
		case <-ticker.C:
		}
	}
}
