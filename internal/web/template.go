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
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Alarm Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.time { font-size: 2em; }
.ringing { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.buttons button { margin: 2px; padding: 6px 10px; font-family: monospace; }
</style>
</head>
<body>
<h1>Alarm Clock</h1>

<h2>Clock</h2>
<table>
<tr><th>Time</th><td id="time" class="time">{{if .Clock.TimeValid}}{{.Clock.Time}}{{else}}--:--:--{{end}}</td></tr>
<tr><th>Mode</th><td id="mode">{{if .Updated}}{{.Clock.Mode}}{{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Alarm</th><td id="alarm">{{.Clock.Alarm}}</td></tr>
<tr><th>Armed</th><td>{{yesno .Clock.Armed}}</td></tr>
<tr><th>Sounding</th><td class="{{if .Clock.Sounding}}ringing{{else}}quiet{{end}}">{{yesno .Clock.Sounding}}</td></tr>
<tr><th>Snooze</th><td>{{if .Clock.Snoozing}}{{.Clock.SnoozeRemaining}}s left{{else}}off{{end}}</td></tr>
</table>
{{if .Buttons}}
<div class="buttons">
<button data-b="set-time">set time</button>
<button data-b="set-alarm">set alarm</button>
<button data-b="decrement">-</button>
<button data-b="increment">+</button>
<button data-b="accept">accept</button>
<button data-b="cancel">cancel</button>
</div>
<script>
document.querySelectorAll(".buttons button").forEach(function(el) {
  el.addEventListener("click", function() {
    fetch("/api/buttons/" + el.dataset.b, { method: "POST" }).then(function() {
      setTimeout(function() { location.reload(); }, 300);
    });
  });
});
</script>
{{end}}
<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Ringing</th><td>{{.Clock.Counts.Ringing}}</td></tr>
<tr><th>Snoozed</th><td>{{.Clock.Counts.Snoozed}}</td></tr>
<tr><th>Dismissed</th><td>{{.Clock.Counts.Dismissed}}</td></tr>
<tr><th>Time set</th><td>{{.Clock.Counts.TimeSet}}</td></tr>
<tr><th>Alarm set</th><td>{{.Clock.Counts.AlarmSet}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Boot</th><td>{{.BootID}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickUs}}us</td></tr>
<tr><th>Backend</th><td>{{.Config.Backend}} / {{.Config.Display}} ({{.Config.Digits}} digits)</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, buttons bool) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		Buttons bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Buttons:  buttons,
	}
	indexTmpl.Execute(w, data)
}
