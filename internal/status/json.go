package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Display       [2]string    `json:"display"`
	Alarm         string       `json:"alarm,omitempty"`
	TemperatureC  *float64     `json:"temperature_c,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	LastFault     *FaultJSON   `json:"last_fault,omitempty"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	AlarmsFired int `json:"alarms_fired"`
	AlarmsAcked int `json:"alarms_acked"`
	Faults      int `json:"faults"`
}

// FaultJSON is the JSON representation of the last fault.
type FaultJSON struct {
	Source    string `json:"source"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RefreshMs  int64  `json:"refresh_ms"`
	PollMs     int64  `json:"poll_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	I2CBus     string `json:"i2c_bus"`
	Broker     string `json:"broker"`
	HTTPPort   string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Mode:          snap.Mode,
		Display:       [2]string{snap.Line1, snap.Line2},
		Alarm:         snap.Alarm,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			AlarmsFired: snap.Counts.AlarmsFired,
			AlarmsAcked: snap.Counts.AlarmsAcked,
			Faults:      snap.Counts.Faults,
		},
		Config: ConfigJSON{
			RefreshMs:  snap.Config.RefreshMs,
			PollMs:     snap.Config.PollMs,
			DebounceMs: snap.Config.DebounceMs,
			I2CBus:     snap.Config.I2CBus,
			Broker:     snap.Config.Broker,
			HTTPPort:   snap.Config.HTTPPort,
		},
	}
	if snap.HasTemp {
		c := snap.Temperature
		inner.TemperatureC = &c
	}
	if snap.LastFault != nil {
		inner.LastFault = &FaultJSON{
			Source:    snap.LastFault.Source,
			Message:   snap.LastFault.Message,
			Timestamp: snap.LastFault.At.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
