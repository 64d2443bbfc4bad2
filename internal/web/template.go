package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/alarm-clock/internal/status"
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
	"celsius": func(c float64) string {
		return fmt.Sprintf("%.1f°C", c)
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Alarm Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.lcd { background: #2b4; color: #012; padding: 6px 10px; white-space: pre; font-size: 1.2em; display: inline-block; }
.fault { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Alarm Clock</h1>

<h2>Panel</h2>
<div class="lcd" id="lcd">{{printf "%-16s" .Line1}}
{{printf "%-16s" .Line2}}</div>
<table>
<tr><th>Mode</th><td id="mode">{{.Mode}}</td></tr>
<tr><th>Alarm</th><td>{{orDash .Alarm}}</td></tr>
<tr><th>Temperature</th><td>{{if .HasTemp}}{{celsius .Temperature}}{{else}}-{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Alarms fired</th><td>{{.Counts.AlarmsFired}}</td></tr>
<tr><th>Alarms acknowledged</th><td>{{.Counts.AlarmsAcked}}</td></tr>
<tr><th>Faults</th><td>{{.Counts.Faults}}</td></tr>
{{if .LastFault}}<tr><th>Last fault</th><td class="fault">{{.LastFault.Source}}: {{.LastFault.Message}} ({{.LastFault.At.UTC.Format "2006-01-02T15:04:05Z"}})</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{orDash .Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>I2C bus</th><td>{{.Config.I2CBus}}</td></tr>
<tr><th>Refresh</th><td>{{.Config.RefreshMs}}ms</td></tr>
<tr><th>Keypad poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
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
