package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/thermo-monitor/internal/mqtt"
	"github.com/sweeney/thermo-monitor/internal/status"
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
	"temp": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Thermo Monitor</title>
<style>
body { font-family: monospace; max-width: 800px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
img { max-width: 100%; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Thermo Monitor{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Temperatures</h2>
<table>
<tr><th></th><th>Now</th><th>High</th><th>Low</th></tr>
<tr><th>In</th><td id="in-reading">{{temp .In.Reading}}</td><td id="in-high">{{temp .In.High}}</td><td id="in-low">{{temp .In.Low}}</td></tr>
<tr><th>Out</th><td id="out-reading">{{temp .Out.Reading}}</td><td id="out-high">{{temp .Out.High}}</td><td id="out-low">{{temp .Out.Low}}</td></tr>
</table>

<h2>Last 24 hours</h2>
<p><img src="/history.svg?channel=in" alt="inside history"></p>
<p><img src="/history.svg?channel=out" alt="outside history"></p>

<h2>Device</h2>
<table>
<tr><th>View</th><td>{{.Mode}}</td></tr>
<tr><th>Next bin</th><td id="bin">{{.Device.Cursor}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
<tr><th>Samples</th><td>{{.Device.Counts.Samples}}</td></tr>
<tr><th>Short presses</th><td>{{.Device.Counts.ShortPresses}}</td></tr>
<tr><th>Long presses</th><td>{{.Device.Counts.LongPresses}}</td></tr>
<tr><th>Extrema resets</th><td>{{.Device.Counts.Resets}}</td></tr>
<tr><th>Bounces</th><td>{{.Device.Counts.Bounced}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>Button</th><td>GPIO {{.Config.PinButton}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "{{.Topic}}";
  var dot = document.getElementById("live-dot");

  function setText(id, v) {
    document.getElementById(id).textContent = v.toFixed(2);
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.sample) {
        ["in", "out"].forEach(function(ch) {
          setText(ch + "-reading", msg.sample[ch].reading);
          setText(ch + "-high", msg.sample[ch].high);
          setText(ch + "-low", msg.sample[ch].low);
        });
        document.getElementById("bin").textContent = (msg.sample.bin + 1) % 96;
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// The page reads from the JSON view so values match /index.json.
	inner := status.Summary(snap)
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Mode   string
		In     status.ChannelJSON
		Out    status.ChannelJSON
		Topic  string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Mode:     inner.Mode,
		In:       inner.In,
		Out:      inner.Out,
		Topic:    mqtt.Topic,
	}
	indexTmpl.Execute(w, data)
}
