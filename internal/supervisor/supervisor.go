// Package supervisor is a client for the Home Assistant Supervisor REST
// API and the Core API it proxies under /core/api. All calls take a
// context and run under a bounded timeout. A client built with an empty
// token returns ErrNoToken from every call instead of hitting the
// network.
package supervisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Supervisor address inside an add-on container.
const DefaultBaseURL = "http://supervisor"

const (
	requestTimeout = 5 * time.Second
	powerTimeout   = 10 * time.Second
)

// ErrNoToken is returned when the client was built without a
// SUPERVISOR_TOKEN.
var ErrNoToken = errors.New("supervisor: token not set")

// StatusError reports a non-2xx Supervisor response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supervisor: %s returned status %d", e.Endpoint, e.Code)
}

// Client talks to the Supervisor API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New returns a client for the Supervisor API at baseURL, normally
// DefaultBaseURL. Tests point baseURL at a local server.
func New(baseURL, token string) *Client {
	return &Client{
		base:  baseURL,
		token: token,
		http:  &http.Client{},
	}
}

// envelope is the standard Supervisor response wrapper.
type envelope struct {
	Result  string          `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs a Supervisor API request and decodes the data field of the
// response envelope into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, timeout time.Duration, out any) error {
	body, err := c.raw(ctx, method, endpoint, timeout, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", endpoint, err)
	}
	return nil
}

// raw performs a request and returns the response body. Core API
// endpoints respond with plain JSON rather than the Supervisor envelope,
// so their callers decode the body themselves.
func (c *Client) raw(ctx context.Context, method, endpoint string, timeout time.Duration, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}
