// Package status provides a thread-safe status tracker for the alarm-clock daemon.
// The panel loop writes to it; HTTP handlers and MQTT system events read
// snapshots. It never touches hardware.
package status

import (
	"sync"
	"time"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	RefreshMs  int64
	PollMs     int64
	DebounceMs int64
	I2CBus     string
	Broker     string
	HTTPPort   string
}

// Counts tracks panel events since startup.
type Counts struct {
	AlarmsFired int
	AlarmsAcked int
	Faults      int
}

// Fault is the most recent device error.
type Fault struct {
	Source  string
	Message string
	At      time.Time
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Mode          string
	Line1         string
	Line2         string
	Alarm         string
	Temperature   float64
	HasTemp       bool
	Counts        Counts
	LastFault     *Fault
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Mode:      "SETUP",
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetFrame records the two display lines last pushed.
func (t *Tracker) SetFrame(line1, line2 string) {
	t.mu.Lock()
	t.snap.Line1 = line1
	t.snap.Line2 = line2
	t.mu.Unlock()
}

// SetMode records the dispatch mode.
func (t *Tracker) SetMode(mode string) {
	t.mu.Lock()
	t.snap.Mode = mode
	t.mu.Unlock()
}

// SetAlarm records the configured alarm, as displayed.
func (t *Tracker) SetAlarm(alarm string) {
	t.mu.Lock()
	t.snap.Alarm = alarm
	if t.snap.Mode == "SETUP" {
		t.snap.Mode = "NORMAL"
	}
	t.mu.Unlock()
}

// SetTemperature records the last good reading.
func (t *Tracker) SetTemperature(celsius float64) {
	t.mu.Lock()
	t.snap.Temperature = celsius
	t.snap.HasTemp = true
	t.mu.Unlock()
}

// RecordAlarmFired counts a fired alarm.
func (t *Tracker) RecordAlarmFired() {
	t.mu.Lock()
	t.snap.Counts.AlarmsFired++
	t.mu.Unlock()
}

// RecordAlarmAck counts an acknowledged alarm.
func (t *Tracker) RecordAlarmAck() {
	t.mu.Lock()
	t.snap.Counts.AlarmsAcked++
	t.mu.Unlock()
}

// AddFault counts a device error and keeps it as the last fault.
func (t *Tracker) AddFault(source, message string) {
	t.mu.Lock()
	t.snap.Counts.Faults++
	t.snap.LastFault = &Fault{Source: source, Message: message, At: time.Now()}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.LastFault != nil {
		f := *s.LastFault
		s.LastFault = &f
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
