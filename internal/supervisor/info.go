package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"
)

// IPv4Config holds the IPv4 addresses of one interface, CIDR-suffixed.
type IPv4Config struct {
	Address []string `json:"address"`
}

// NetworkInterface is one entry of GET /network/info.
type NetworkInterface struct {
	Interface string     `json:"interface"`
	Primary   bool       `json:"primary"`
	IPv4      IPv4Config `json:"ipv4"`
}

// NetworkInfo is the data payload of GET /network/info.
type NetworkInfo struct {
	Interfaces []NetworkInterface `json:"interfaces"`
}

// NetworkInfo fetches the host network configuration.
func (c *Client) NetworkInfo(ctx context.Context) (NetworkInfo, error) {
	var info NetworkInfo
	err := c.do(ctx, http.MethodGet, "network/info", requestTimeout, &info)
	return info, err
}

// HostIP returns the host address reported by the Supervisor: the primary
// interface when one is flagged, otherwise the first interface that is
// not a docker bridge. The CIDR suffix is stripped.
func (c *Client) HostIP(ctx context.Context) (string, error) {
	info, err := c.NetworkInfo(ctx)
	if err != nil {
		return "", err
	}
	for _, iface := range info.Interfaces {
		if iface.Primary {
			if ip := firstAddress(iface); ip != "" {
				return ip, nil
			}
		}
	}
	for _, iface := range info.Interfaces {
		if strings.HasPrefix(iface.Interface, "docker") {
			continue
		}
		if ip := firstAddress(iface); ip != "" {
			return ip, nil
		}
	}
	return "", errors.New("supervisor: no usable interface in network info")
}

func firstAddress(iface NetworkInterface) string {
	if len(iface.IPv4.Address) == 0 {
		return ""
	}
	ip, _, _ := strings.Cut(iface.IPv4.Address[0], "/")
	return ip
}

// CoreInfo is the data payload of GET /core/info.
type CoreInfo struct {
	Version         string `json:"version"`
	UpdateAvailable bool   `json:"update_available"`
}

// CoreInfo fetches Home Assistant core version information.
func (c *Client) CoreInfo(ctx context.Context) (CoreInfo, error) {
	var info CoreInfo
	err := c.do(ctx, http.MethodGet, "core/info", requestTimeout, &info)
	return info, err
}

// SupervisorInfo is the data payload of GET /supervisor/info.
type SupervisorInfo struct {
	Version         string `json:"version"`
	UpdateAvailable bool   `json:"update_available"`
}

// SupervisorInfo fetches Supervisor version information.
func (c *Client) SupervisorInfo(ctx context.Context) (SupervisorInfo, error) {
	var info SupervisorInfo
	err := c.do(ctx, http.MethodGet, "supervisor/info", requestTimeout, &info)
	return info, err
}

// Addon is one entry of GET /addons.
type Addon struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	UpdateAvailable bool   `json:"update_available"`
}

// Addons fetches the installed add-on list.
func (c *Client) Addons(ctx context.Context) ([]Addon, error) {
	var data struct {
		Addons []Addon `json:"addons"`
	}
	err := c.do(ctx, http.MethodGet, "addons", requestTimeout, &data)
	return data.Addons, err
}

// Backup is one entry of GET /backups. Date is the Supervisor's ISO 8601
// timestamp string.
type Backup struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Backups fetches the backup list.
func (c *Client) Backups(ctx context.Context) ([]Backup, error) {
	var data struct {
		Backups []Backup `json:"backups"`
	}
	err := c.do(ctx, http.MethodGet, "backups", requestTimeout, &data)
	return data.Backups, err
}

// SystemStatus summarizes the figures shown on the HA status screen.
type SystemStatus struct {
	// Updates counts pending updates across supervisor, core and add-ons.
	Updates int

	// LastBackup is the most recent backup time, zero when none exists
	// or the date did not parse.
	LastBackup time.Time

	// BackupState is "OK" when a backup exists, "None" when the list is
	// empty, "Unknown" when the list could not be fetched.
	BackupState string
}

// SystemStatus aggregates update counts and backup recency. Individual
// endpoint failures degrade the result rather than failing it: an
// unreachable endpoint contributes zero updates or an Unknown backup
// state.
func (c *Client) SystemStatus(ctx context.Context) SystemStatus {
	status := SystemStatus{BackupState: "Unknown"}

	if info, err := c.SupervisorInfo(ctx); err == nil && info.UpdateAvailable {
		status.Updates++
	}
	if info, err := c.CoreInfo(ctx); err == nil && info.UpdateAvailable {
		status.Updates++
	}
	if addons, err := c.Addons(ctx); err == nil {
		for _, addon := range addons {
			if addon.UpdateAvailable {
				status.Updates++
			}
		}
	}

	backups, err := c.Backups(ctx)
	if err != nil {
		return status
	}
	if len(backups) == 0 {
		status.BackupState = "None"
		return status
	}
	// ISO 8601 strings with a fixed offset sort chronologically.
	sort.Slice(backups, func(i, j int) bool { return backups[i].Date > backups[j].Date })
	status.BackupState = "OK"
	if t, err := time.Parse(time.RFC3339, backups[0].Date); err == nil {
		status.LastBackup = t
	}
	return status
}
