package web

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweeney/thermo-monitor/internal/logic"
	"github.com/sweeney/thermo-monitor/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:    100,
		Broker:    "tcp://192.168.1.200:1883",
		HTTPAddr:  ":80",
		Display:   "oled",
		PinButton: 17,
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func testDevice() logic.Snapshot {
	var dev logic.Snapshot
	dev.Mode = logic.ModeHistoryIn
	dev.Cursor = 12
	dev.Readings = [logic.NumChannels]float64{21.5, 4.25}
	dev.Extrema = [logic.NumChannels]logic.Pair{{High: 23, Low: 18.5}, {High: 6, Low: 1}}
	dev.Counts = logic.Counts{Samples: 12, ShortPresses: 3}
	for k := 0; k < logic.HistorySize; k++ {
		dev.Windows[logic.Inside][k] = 18.5 + float64(k%10)/2
		dev.Windows[logic.Outside][k] = 1 + float64(k)/20
	}
	return dev
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(testDevice())
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sj status.StatusJSON
	require.NoError(t, json.Unmarshal([]byte(body), &sj))
	assert.Equal(t, "HISTORY_IN", sj.Status.Mode)
	assert.Equal(t, 12, sj.Status.Bin)
	assert.True(t, sj.Status.Ready)
	assert.Equal(t, 21.5, sj.Status.In.Reading)
	assert.Equal(t, 1.0, sj.Status.Out.Low)
	assert.True(t, sj.Status.MQTT.Connected)
	assert.Equal(t, "tcp://192.168.1.200:1883", sj.Status.MQTT.Broker)
	assert.Equal(t, 3, sj.Status.Counts.ShortPresses)
	assert.Equal(t, int64(100), sj.Status.Config.PollMs)
	require.NotNil(t, sj.Status.History)
	assert.Len(t, sj.Status.History.Out, logic.HistorySize)
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	_, body := get(t, ts.URL+"/index.json")

	var sj status.StatusJSON
	require.NoError(t, json.Unmarshal([]byte(body), &sj))
	require.NotNil(t, sj.Status.Network)
	assert.Equal(t, "192.168.1.42", sj.Status.Network.IP)
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(testDevice())

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "21.50")
	assert.Contains(t, body, "4.25")
	assert.Contains(t, body, "HISTORY_IN")
	assert.Contains(t, body, `/history.svg?channel=out`)
	assert.NotContains(t, body, "mqtt.connect", "no live script without a websocket broker")
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ready</th><td>no")
}

func TestHTMLLiveScriptWithWSBroker(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{WSBroker: "ws://192.168.1.200:9001"})
	ts := httptest.NewServer(New(":0", tr).Handler())
	t.Cleanup(ts.Close)

	_, body := get(t, ts.URL+"/")
	assert.Contains(t, body, "mqtt.connect")
	assert.Contains(t, body, "samples")
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistorySVG(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(testDevice())

	for _, ch := range []string{"in", "out"} {
		t.Run(ch, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/history.svg?channel="+ch)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
			assert.NoError(t, xml.Unmarshal([]byte(body), new(struct{})), "well-formed SVG")
		})
	}
}

func TestHistorySVGDefaultsToInside(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(testDevice())

	_, body := get(t, ts.URL+"/history.svg")
	assert.Contains(t, body, "In max 23.00")
}

func TestHistorySVGBadChannel(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/history.svg?channel=attic")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	var sj1 status.StatusJSON
	_, body := get(t, ts.URL+"/index.json")
	require.NoError(t, json.Unmarshal([]byte(body), &sj1))
	assert.False(t, sj1.Status.Ready)

	dev := testDevice()
	dev.Mode = logic.ModeLive
	tr.Update(dev)
	tr.SetMQTTConnected(true)

	var sj2 status.StatusJSON
	_, body = get(t, ts.URL+"/index.json")
	require.NoError(t, json.Unmarshal([]byte(body), &sj2))
	assert.True(t, sj2.Status.Ready)
	assert.Equal(t, "LIVE", sj2.Status.Mode)
	assert.True(t, sj2.Status.MQTT.Connected)
}
