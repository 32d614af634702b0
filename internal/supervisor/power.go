package supervisor

import (
	"context"
	"errors"
	"net/http"
)

// Permission is the outcome of the host-control probe.
type Permission struct {
	Allowed bool
	Reason  string
}

// CheckPowerPermission probes whether this add-on may reboot or shut down
// the host. Reachability of the Supervisor itself is checked first so a
// transport failure is not mistaken for a missing role.
func (c *Client) CheckPowerPermission(ctx context.Context) Permission {
	if c.token == "" {
		return Permission{Reason: "supervisor token not set"}
	}
	if err := c.do(ctx, http.MethodGet, "supervisor/info", requestTimeout, nil); err != nil {
		return Permission{Reason: "supervisor unreachable"}
	}

	err := c.do(ctx, http.MethodGet, "host/info", requestTimeout, nil)
	if err == nil {
		return Permission{Allowed: true, Reason: "host control permitted"}
	}
	var se *StatusError
	if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
		return Permission{Reason: "no host control permission"}
	}
	return Permission{Reason: "unexpected host info response"}
}

// Reboot asks the Supervisor to reboot the host. Any 2xx response means
// the request was accepted.
func (c *Client) Reboot(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "host/reboot", powerTimeout, nil)
}

// Shutdown asks the Supervisor to shut the host down.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "host/shutdown", powerTimeout, nil)
}
