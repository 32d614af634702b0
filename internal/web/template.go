package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/hindley/argon-addons/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Argon OLED</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Argon OLED</h1>

<h2>Display</h2>
<table>
<tr><th>Screen</th><td>{{.Screen}}</td></tr>
<tr><th>Rotation</th><td class="{{if .Suspended}}off{{else}}on{{end}}">{{if .Suspended}}suspended{{else}}running{{end}}</td></tr>
</table>

<h2>Power</h2>
<table>
<tr><th>Phase</th><td class="{{if eq (printf "%s" .Phase) "idle"}}off{{else}}on{{end}}">{{.Phase}}</td></tr>
<tr><th>Target</th><td>{{.Target}}</td></tr>
<tr><th>Host Control</th><td class="{{if .Permitted}}connected{{else}}disconnected{{end}}">{{if .Permitted}}allowed{{else}}denied{{end}}{{if .PermissionMsg}} ({{.PermissionMsg}}){{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .IP}}<tr><th>IP</th><td>{{.IP}}</td></tr>{{end}}
</table>

<h2>Gesture Counts</h2>
<table>
<tr><th>Taps</th><td>{{.Counts.Taps}}</td></tr>
<tr><th>Double Taps</th><td>{{.Counts.DoubleTaps}}</td></tr>
<tr><th>Long Presses</th><td>{{.Counts.LongPresses}}</td></tr>
<tr><th>Hold Releases</th><td>{{.Counts.HoldReleases}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Screen Switch</th><td>{{.Config.SwitchSeconds}}s</td></tr>
<tr><th>Screens</th><td>{{.Config.Screens}}</td></tr>
<tr><th>Temperature Unit</th><td>{{.Config.TempUnit}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
