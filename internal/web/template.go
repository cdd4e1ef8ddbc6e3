package web

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sweeney/altimeter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"hpa": func(p float64) string {
		return strconv.FormatFloat(p, 'f', -1, 64)
	},
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
	"ago": humanize.Time,
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Altimeter</title>
<style>
body { font-family: sans-serif; margin: 0; padding: 2em 1em; min-height: 100vh; box-sizing: border-box; text-align: center; transition: background-color 0.5s; }
h1 { font-size: 1.6em; margin-top: 0; }
h2 { font-size: 1.3em; margin-top: 2em; }
p.value { font-size: 1.2em; margin: 0.4em 0; }
form { display: inline-block; margin: 1em 0.5em; }
button { font-size: 1.1em; padding: 0.6em 1.4em; }
footer { margin-top: 3em; font-size: 0.8em; opacity: 0.7; }
footer a { color: inherit; }
</style>
</head>
<body id="screen" style="background-color: {{.View.Background.Color}}; color: {{.View.Text.Color}};">
<h1>Real Altitude Data</h1>
<p class="value" id="real-pressure">Pressure: {{hpa .View.Pressure}} hPa</p>
<p class="value" id="real-altitude">Altitude: {{.View.AltitudeMeters}} m</p>

<h2>Simulated Data</h2>
<p class="value" id="sim-pressure">Simulated Pressure: {{hpa .View.SimulatedPressure}} hPa</p>
<p class="value" id="sim-altitude">Simulated Altitude: {{.View.SimulatedAltitudeMeters}} m</p>

<form method="post" action="/simulate/down"><button type="submit">-100hPa</button></form>
<form method="post" action="/simulate/up"><button type="submit">+100hPa</button></form>

<footer>
<p>Sensor {{if .SensorActive}}active, {{comma .Counts.Samples}} samples{{else}}unavailable{{end}}
 &middot; MQTT {{if .MQTTConnected}}connected{{else}}disconnected{{end}}
{{if .Network}} &middot; {{.Network.IP}}{{end}}</p>
<p>Up {{uptime .Uptime}}, started {{ago .StartTime}}</p>
<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">metrics</a></p>
</footer>

<script>
(function() {
  if (!window.WebSocket) { return; }
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var screen = document.getElementById("screen");

  function meters(v) { return v === null ? 0 : v; }
  function set(id, text) { document.getElementById(id).textContent = text; }

  function connect() {
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function(ev) {
      try {
        var st = JSON.parse(ev.data).status;
        set("real-pressure", "Pressure: " + st.real.pressure_hpa + " hPa");
        set("real-altitude", "Altitude: " + meters(st.real.altitude_display_m) + " m");
        set("sim-pressure", "Simulated Pressure: " + st.simulated.pressure_hpa + " hPa");
        set("sim-altitude", "Simulated Altitude: " + meters(st.simulated.altitude_display_m) + " m");
        screen.style.backgroundColor = st.display.background;
        screen.style.color = st.display.text_color;
      } catch (e) {}
    };
    ws.onclose = function() { setTimeout(connect, 5000); };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has an Uptime method but the template wants a field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
