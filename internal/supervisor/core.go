package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// EntityState is the subset of a Core API state object the daemons read.
type EntityState struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// StrAttr returns a string attribute, or "" when absent or not a string.
func (s EntityState) StrAttr(name string) string {
	v, _ := s.Attributes[name].(string)
	return v
}

// NumAttr returns a numeric attribute. ok is false when the attribute
// is absent or not a JSON number.
func (s EntityState) NumAttr(name string) (float64, bool) {
	v, ok := s.Attributes[name].(float64)
	return v, ok
}

// State fetches one entity state through the Core API proxy.
func (c *Client) State(ctx context.Context, entityID string) (EntityState, error) {
	var state EntityState
	body, err := c.raw(ctx, http.MethodGet, "core/api/states/"+entityID, requestTimeout, nil)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(body, &state); err != nil {
		return state, fmt.Errorf("decode state of %s: %w", entityID, err)
	}
	return state, nil
}

// CallService invokes a Home Assistant service through the Core API
// proxy. payload carries the service data, typically including the
// target entity_id.
func (c *Client) CallService(ctx context.Context, domain, service string, payload any) error {
	_, err := c.raw(ctx, http.MethodPost, "core/api/services/"+domain+"/"+service, requestTimeout, payload)
	return err
}

// CoreConfig is the subset of the Core API /config object shown on the
// HA status screen.
type CoreConfig struct {
	Version string `json:"version"`
	State   string `json:"state"`
}

// CoreConfig fetches the running core's version and state.
func (c *Client) CoreConfig(ctx context.Context) (CoreConfig, error) {
	var cfg CoreConfig
	body, err := c.raw(ctx, http.MethodGet, "core/api/config", requestTimeout, nil)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(body, &cfg); err != nil {
		return cfg, fmt.Errorf("decode core config: %w", err)
	}
	return cfg, nil
}
