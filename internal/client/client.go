// Package client talks to a running meritd for the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
)

type Client struct {
	base  string
	token string
	http  *retryablehttp.Client
}

// New returns a client for the server at base. An empty token makes Save and
// History fetch a guest token first.
func New(base, token string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = 15 * time.Second
	return &Client{base: strings.TrimSuffix(base, "/"), token: token, http: retryClient}
}

// Token is the bearer token in use, possibly a guest token obtained lazily.
func (c *Client) Token() string { return c.token }

// Guest asks the server for a guest student token and keeps it.
func (c *Client) Guest(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/guest", nil, false)
	if err != nil {
		return "", err
	}
	tok := gjson.GetBytes(body, "access_token").String()
	if tok == "" {
		return "", fmt.Errorf("guest login: no token in response")
	}
	c.token = tok
	return tok, nil
}

// Save posts the request; the server recomputes and stores it.
func (c *Client) Save(ctx context.Context, req aggregate.Request) (results.Saved, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return results.Saved{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/results", payload, true)
	if err != nil {
		return results.Saved{}, err
	}
	var sv results.Saved
	if err := json.Unmarshal(body, &sv); err != nil {
		return results.Saved{}, fmt.Errorf("decode saved result: %w", err)
	}
	return sv, nil
}

// History lists saved results visible to the caller, newest first.
func (c *Client) History(ctx context.Context, opts results.ListOpts) ([]results.Saved, error) {
	q := url.Values{}
	if opts.Institution != "" {
		q.Set("institution", opts.Institution)
	}
	if opts.UserID != "" {
		q.Set("user_id", opts.UserID)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/results"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	var list []results.Saved
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return list, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, authed bool) ([]byte, error) {
	if authed && c.token == "" {
		if _, err := c.Guest(ctx); err != nil {
			return nil, err
		}
	}
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, &StatusError{Code: res.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// StatusError is a non-2xx reply from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// errorMessage pulls a message out of either a JSON error body or plain text.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Exists() && m.String() != "" {
			return m.String()
		}
		if e := gjson.GetBytes(body, "error"); e.Exists() {
			return e.String()
		}
	}
	return strings.TrimSpace(string(body))
}
