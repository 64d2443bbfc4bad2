// Command alarm-clock drives a wall panel: an I2C character display, a
// DS3231 clock with its alarm, a DS1631 thermometer and a 4x4 keypad. Panel
// events and lifecycle events are published to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/alarm-clock/internal/app"
	"github.com/sweeney/alarm-clock/internal/bus"
	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/keypad"
	"github.com/sweeney/alarm-clock/internal/lcd"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/rtc"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/thermo"
	"github.com/sweeney/alarm-clock/internal/web"
)

type config struct {
	I2CBus       string
	LCDAddr      uint16
	LCDCols      int
	LCDRows      int
	ThermoAddr   uint16
	Chip         string
	RowPins      [4]int
	ColPins      [4]int
	IndicatorPin int
	Debounce     time.Duration
	Refresh      time.Duration
	Broker       string
	HTTPAddr     string
	PrintTime    bool
}

func main() {
	i2cBus := flag.String("i2c", "1", `I2C bus name ("1" is /dev/i2c-1)`)
	lcdAddr := flag.Uint("lcd-addr", lcd.DefaultAddress, "I2C address of the display backpack")
	lcdCols := flag.Int("lcd-cols", 20, "Display width in characters")
	lcdRows := flag.Int("lcd-rows", 2, "Display height in lines")
	thermoAddr := flag.Uint("thermo-addr", thermo.DefaultAddress, "I2C address of the temperature sensor")
	chip := flag.String("gpio-chip", gpio.DefaultChip, "GPIO character device")
	rows := flag.String("rows", formatPins(gpio.DefaultRowPins), "Keypad row lines (BCM, comma separated)")
	cols := flag.String("cols", formatPins(gpio.DefaultColPins), "Keypad column lines (BCM, comma separated)")
	pinIndicator := flag.Int("pin-indicator", gpio.DefaultIndicatorPin, "BCM pin number for the alarm indicator")
	debounce := flag.Duration("debounce", keypad.DefaultDebounce, "Keypad debounce duration")
	refresh := flag.Duration("refresh", app.DefaultTiming().RefreshWait, "Normal display refresh interval")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	printTime := flag.Bool("print-time", false, "Print the clock and temperature and exit")

	flag.Parse()

	rowPins, err := parsePins(*rows)
	if err != nil {
		log.Fatalf("fatal: --rows: %v", err)
	}
	colPins, err := parsePins(*cols)
	if err != nil {
		log.Fatalf("fatal: --cols: %v", err)
	}

	cfg := config{
		I2CBus:       *i2cBus,
		LCDAddr:      uint16(*lcdAddr),
		LCDCols:      *lcdCols,
		LCDRows:      *lcdRows,
		ThermoAddr:   uint16(*thermoAddr),
		Chip:         *chip,
		RowPins:      rowPins,
		ColPins:      colPins,
		IndicatorPin: *pinIndicator,
		Debounce:     *debounce,
		Refresh:      *refresh,
		Broker:       *broker,
		HTTPAddr:     *httpAddr,
		PrintTime:    *printTime,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	// One bus, shared by display, clock and sensor
	i2c, err := bus.Open(cfg.I2CBus, bus.DefaultSpeed)
	if err != nil {
		return fmt.Errorf("init i2c: %w", err)
	}
	defer i2c.Close()
	shared := bus.NewLocked(i2c)

	clk := clock.Real{}
	rtcDev := rtc.New(shared)
	sensor := thermo.New(shared, clk, cfg.ThermoAddr)

	// Print time mode
	if cfg.PrintTime {
		return printTime(os.Stdout, rtcDev, sensor)
	}

	if valid, err := rtcDev.TimeValid(); err != nil {
		log.Printf("rtc read error: %v", err)
	} else if !valid {
		log.Printf("rtc: oscillator stopped, clock needs setting")
	}
	if err := sensor.Configure(); err != nil {
		log.Printf("sensor error: %v", err)
	}

	display := lcd.New(shared, clk, lcd.Config{Address: cfg.LCDAddr, Cols: cfg.LCDCols, Rows: cfg.LCDRows})
	if err := display.Init(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer display.Clear()

	// Initialize GPIO
	matrix, err := gpio.NewRealMatrix(cfg.Chip, cfg.RowPins, cfg.ColPins)
	if err != nil {
		return fmt.Errorf("init keypad: %w", err)
	}
	defer matrix.Close()

	indicator, err := gpio.NewRealIndicator(cfg.Chip, cfg.IndicatorPin)
	if err != nil {
		return fmt.Errorf("init indicator: %w", err)
	}
	defer indicator.Close()

	timing := app.DefaultTiming()
	timing.RefreshWait = cfg.Refresh

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		RefreshMs:  cfg.Refresh.Milliseconds(),
		PollMs:     timing.PollInterval.Milliseconds(),
		DebounceMs: cfg.Debounce.Milliseconds(),
		I2CBus:     i2c.String(),
		Broker:     cfg.Broker,
		HTTPPort:   cfg.HTTPAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	machine := &app.Machine{
		Display:   display,
		Keys:      keypad.NewScanner(matrix, clk, keypad.Config{Debounce: cfg.Debounce}),
		RTC:       rtcDev,
		Thermo:    sensor,
		Indicator: indicator,
		Clock:     clk,
		Timing:    timing,
		Tracker:   tracker,
	}

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.Broker)
		if err != nil {
			log.Printf("mqtt unavailable, continuing without: %v", err)
		} else {
			defer p.Close()
			publisher, mqttStatus = p, p
			machine.Publisher = p
		}
	}

	var srv *web.Server
	if cfg.HTTPAddr != "" {
		srv = web.New(cfg.HTTPAddr, tracker)
	}

	log.Printf("started: i2c=%s lcd=0x%02X thermo=0x%02X refresh=%v debounce=%v broker=%q http=%q",
		i2c, cfg.LCDAddr, cfg.ThermoAddr, cfg.Refresh, cfg.Debounce, cfg.Broker, cfg.HTTPAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runPanel(context.Background(), machine, publisher, mqttStatus, tracker, srv, sigCh)
}

// runPanel publishes STARTUP, runs the panel and the status server until a
// signal arrives, then publishes SHUTDOWN. publisher, mqttStatus and srv may
// be nil.
func runPanel(parent context.Context, m *app.Machine, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, srv *web.Server, sig <-chan os.Signal) error {
	publishSystem(publisher, mqttStatus, tracker, "STARTUP", "")

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	reason := ""
	g.Go(func() error {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason = signalName(s)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		if err := m.Run(ctx); err != nil {
			return fmt.Errorf("panel: %w", err)
		}
		return nil
	})

	if srv != nil {
		g.Go(func() error {
			log.Printf("http status server listening on %s", srv.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if mqttStatus != nil {
		g.Go(func() error {
			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		})
	}

	err := g.Wait()
	if reason == "" && err != nil {
		reason = "ERROR"
	}
	publishSystem(publisher, mqttStatus, tracker, "SHUTDOWN", reason)
	return err
}

func publishSystem(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, event, reason string) {
	if publisher == nil {
		return
	}
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
	snap := tracker.Snapshot()
	e := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := publisher.PublishSystem(e); err != nil {
		log.Printf("failed to publish %s event: %v", strings.ToLower(event), err)
	} else {
		log.Printf("published %s event", strings.ToLower(event))
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

type timeReader interface {
	ReadTime() (rtc.DateTime, error)
}

type celsiusReader interface {
	ReadCelsius() (float64, error)
}

// printTime reads the clock and the sensor once.
func printTime(w io.Writer, c timeReader, s celsiusReader) error {
	t, err := c.ReadTime()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	fmt.Fprintf(w, "Time: %s\n", t)

	celsius, err := s.ReadCelsius()
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	fmt.Fprintf(w, "Temp: %.1fC\n", celsius)
	return nil
}

// parsePins parses four comma separated line offsets.
func parsePins(s string) ([4]int, error) {
	var pins [4]int
	parts := strings.Split(s, ",")
	if len(parts) != len(pins) {
		return pins, fmt.Errorf("want %d pins, got %d", len(pins), len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return pins, fmt.Errorf("pin %d: %w", i, err)
		}
		if n < 0 {
			return pins, fmt.Errorf("pin %d: negative offset %d", i, n)
		}
		pins[i] = n
	}
	return pins, nil
}

func formatPins(pins [4]int) string {
	s := make([]string, len(pins))
	for i, p := range pins {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ",")
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
