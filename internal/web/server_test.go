package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		RefreshMs:  5000,
		PollMs:     100,
		DebounceMs: 30,
		I2CBus:     "1",
		Broker:     "tcp://192.168.1.200:1883",
		HTTPPort:   ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetFrame("07:29:55 02/02/26", "Temp: 21.5C")
	tr.SetAlarm("07:30AM D02")
	tr.SetTemperature(21.5)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Mode != "NORMAL" {
		t.Errorf("Mode: got %q, want NORMAL", sj.Status.Mode)
	}
	if sj.Status.Display[0] != "07:29:55 02/02/26" {
		t.Errorf("Display[0]: got %q", sj.Status.Display[0])
	}
	if sj.Status.Alarm != "07:30AM D02" {
		t.Errorf("Alarm: got %q", sj.Status.Alarm)
	}
	if sj.Status.TemperatureC == nil || *sj.Status.TemperatureC != 21.5 {
		t.Errorf("TemperatureC: got %v", sj.Status.TemperatureC)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT connected")
	}
	if sj.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Broker: got %q", sj.Status.Config.Broker)
	}
}

func TestJSONBeforeSetup(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Mode != "SETUP" {
		t.Errorf("Mode: got %q, want SETUP", sj.Status.Mode)
	}
	if sj.Status.TemperatureC != nil {
		t.Errorf("TemperatureC: got %v, want nil", *sj.Status.TemperatureC)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "Home"})

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Network == nil {
		t.Fatal("expected network info")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetFrame("12:00:00 01/01/26", "Alarm 07:30AM D02")
	tr.SetMode("CALCULATOR")
	tr.AddFault("sensor", "bus read 0x48: no device acknowledged")

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	for _, want := range []string{"12:00:00 01/01/26", "CALCULATOR", "sensor: bus read 0x48"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Counts.AlarmsFired != 0 {
		t.Error("expected no alarms initially")
	}

	tr.RecordAlarmFired()
	tr.RecordAlarmAck()
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if sj2.Status.Counts.AlarmsFired != 1 || sj2.Status.Counts.AlarmsAcked != 1 {
		t.Errorf("Counts: got %+v", sj2.Status.Counts)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
