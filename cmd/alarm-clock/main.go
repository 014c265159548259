// Command alarm-clock drives a four digit LED alarm clock from GPIO buttons
// and publishes its events to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sweeney/alarm-clock/internal/board"
	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/web"
)

type options struct {
	tick       time.Duration
	longPress  int
	idle       int
	snooze     int
	flash      int
	digits     int
	backend    string
	chip       string
	display    string
	i2cBus     int
	i2cAddr    uint
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	startTime  string
	envFile    string
	printState bool
}

func main() {
	var o options
	flag.DurationVar(&o.tick, "tick", time.Millisecond, "Tick interval")
	flag.IntVar(&o.longPress, "long-press", 3000, "Ticks a set button is held before editing starts")
	flag.IntVar(&o.idle, "idle-timeout", 30000, "Ticks without a button before an edit is abandoned")
	flag.IntVar(&o.snooze, "snooze", 5, "Snooze delay in minutes")
	flag.IntVar(&o.flash, "flash", 200, "Blink period in display refresh cycles")
	flag.IntVar(&o.digits, "digits", 4, "Number of display digits")
	flag.StringVar(&o.backend, "backend", "gpiocdev", "GPIO backend: gpiocdev, rpio or fake")
	flag.StringVar(&o.chip, "chip", "gpiochip0", "GPIO chip for the gpiocdev backend")
	flag.StringVar(&o.display, "display", "gpio", "Display driver: gpio or mcp23017")
	flag.IntVar(&o.i2cBus, "i2c-bus", 1, "I2C bus for the mcp23017 display")
	flag.UintVar(&o.i2cAddr, "i2c-addr", board.DefaultExpanderAddr, "I2C address of the mcp23017")
	flag.StringVar(&o.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&o.startTime, "time", "", "Initial time as HH:MM or HH:MM:SS (empty starts unconfigured)")
	flag.StringVar(&o.envFile, "env-file", "/run/pi-helper.env", "pi-helper env file with network info")
	flag.BoolVar(&o.printState, "print-state", false, "Print current state and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	if o.tick <= 0 || o.tick > time.Second || time.Second%o.tick != 0 {
		return fmt.Errorf("invalid tick %v: must divide 1s", o.tick)
	}
	loadEnvFile(o.envFile)

	backend, err := openBackend(o.backend, o.chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	pool := gpio.NewPool(backend, gpio.DefaultInputs, gpio.DefaultOutputs)

	pins := board.DefaultPins()
	driver, err := openDisplay(o, pool, pins)
	if err != nil {
		pool.Close()
		return fmt.Errorf("init display: %w", err)
	}
	b, err := board.New(pool, pins, driver)
	if err != nil {
		return fmt.Errorf("init board: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Printf("board close: %v", err)
		}
	}()

	ticksPerSecond := int(time.Second / o.tick)
	engine := clock.NewEngine(ticksPerSecond, b.Sound)
	renderer, err := display.New(o.digits, b.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	if o.startTime != "" {
		d, err := clock.ParseDigits(o.startTime)
		if err != nil {
			return fmt.Errorf("-time: %w", err)
		}
		engine.Keeper.SetTime(d)
	}
	ctrl := logic.NewController(logic.Config{
		LongPressTicks: o.longPress,
		IdleTicks:      o.idle,
		SnoozeMinutes:  o.snooze,
		FlashFactor:    uint16(o.flash),
	}, engine.Keeper, engine.Alarm, renderer)

	if o.printState {
		in, err := b.Sample()
		if err != nil {
			return fmt.Errorf("read buttons: %w", err)
		}
		printState(os.Stdout, in, ctrl.Status())
		return nil
	}

	publisher, mqttStatus := openPublisher(o.broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickUs:         o.tick.Microseconds(),
		LongPressTicks: o.longPress,
		IdleTicks:      o.idle,
		SnoozeMinutes:  o.snooze,
		Digits:         o.digits,
		Backend:        o.backend,
		Display:        o.display,
		HeartbeatMs:    o.heartbeat.Milliseconds(),
		Broker:         o.broker,
		HTTPPort:       o.httpAddr,
	})
	tracker.Update(ctrl.Status())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	remote := newRemoteQueue(16, o.longPress)
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker, remote)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: tick=%v long-press=%d idle=%d snooze=%dm digits=%d backend=%s display=%s broker=%s heartbeat=%v mode=%s",
		o.tick, o.longPress, o.idle, o.snooze, o.digits, o.backend, o.display, o.broker, o.heartbeat, ctrl.Mode())

	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	c := &core{engine: engine, renderer: renderer, ctrl: ctrl}
	return runLoop(b, c, remote, publisher, mqttStatus, tracker, o.heartbeat, time.Now, ticker.C, sigCh)
}

// sampler polls the physical buttons.
type sampler interface {
	Sample() (logic.Input, error)
}

// core is the pure clock: time keeping, alarm, display memory and modes.
type core struct {
	engine   *clock.Engine
	renderer *display.Renderer
	ctrl     *logic.Controller
}

func runLoop(buttons sampler, c *core, remote *remoteQueue, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	// Ticks are counted from the monotonic clock rather than from ticker
	// deliveries, which are dropped while an iteration runs long.
	start := now()
	period := time.Second / time.Duration(c.engine.Keeper.TicksPerSecond())
	var applied int64

	lastHeartbeat := start
	lastSecond := c.engine.Keeper.Elapsed()
	var refreshErr, sampleErr string

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				tracker.Update(c.ctrl.Status())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			err := c.renderer.Refresh()
			refreshErr = logChanged("display refresh error", err, refreshErr)

			var events []logic.Event
			for due := int64(t.Sub(start) / period); applied < due; applied++ {
				blink := c.engine.Update()
				events = append(events, c.ctrl.Tick(blink)...)
			}

			// a failed read still carries the buttons that were read
			in, err := buttons.Sample()
			sampleErr = logChanged("button read error", err, sampleErr)
			if remote != nil {
				in = remote.merge(in)
			}
			events = append(events, c.ctrl.Step(in)...)

			for _, event := range events {
				log.Printf("event: %s mode=%s", event.Type, event.Mode)
				if err := publisher.Publish(event, t); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			second := c.engine.Keeper.Elapsed()
			if tracker != nil && (second != lastSecond || len(events) > 0) {
				tracker.Update(c.ctrl.Status())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
			lastSecond = second

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				sendHeartbeat(c, publisher, mqttStatus, tracker, t)
			}
		}
	}
}

func sendHeartbeat(c *core, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, t time.Time) {
	st := c.ctrl.Status()
	log.Printf("heartbeat: mode=%s ringing=%d snoozed=%d dismissed=%d time_set=%d alarm_set=%d",
		st.Mode, st.Counts.Ringing, st.Counts.Snoozed, st.Counts.Dismissed, st.Counts.TimeSet, st.Counts.AlarmSet)

	hbEvent := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "HEARTBEAT",
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		if net := readNetworkInfo(); net != nil {
			tracker.SetNetwork(net)
		}
		tracker.Update(st)
		hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := publisher.PublishSystem(hbEvent); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// logChanged logs err when its text differs from the previous one and
// returns the text to remember. A nil error clears it.
func logChanged(what string, err error, prev string) string {
	if err == nil {
		if prev != "" {
			log.Printf("%s cleared", what)
		}
		return ""
	}
	if msg := err.Error(); msg != prev {
		log.Printf("%s: %v", what, err)
		return msg
	}
	return prev
}

func openBackend(name, chip string) (gpio.Backend, error) {
	switch name {
	case "gpiocdev":
		b, err := gpio.OpenChip(chip)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "rpio":
		b, err := gpio.OpenRpio()
		if err != nil {
			return nil, err
		}
		return b, nil
	case "fake":
		return gpio.NewFakeBackend(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

func openDisplay(o options, pool *gpio.Pool, pins board.Pins) (display.Driver, error) {
	if o.digits < 1 || o.digits > len(pins.Digits) {
		return nil, fmt.Errorf("%w: %d", display.ErrDigitCount, o.digits)
	}
	switch o.display {
	case "gpio":
		return board.NewLineDriver(pool, pins.Segments, pins.Digits[:o.digits])
	case "mcp23017":
		if o.i2cAddr > 0x7f {
			return nil, fmt.Errorf("invalid i2c address %#x", o.i2cAddr)
		}
		return board.OpenExpander(o.i2cBus, uint8(o.i2cAddr), o.digits)
	}
	return nil, fmt.Errorf("unknown display %q", o.display)
}

// nopPublisher stands in for MQTT when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Publish(logic.Event, time.Time) error  { return nil }
func (nopPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }
func (nopPublisher) Close() error                         { return nil }

func openPublisher(broker string) (mqtt.Publisher, mqtt.ConnectionStatus) {
	if broker == "" {
		log.Printf("mqtt disabled")
		return nopPublisher{}, nil
	}
	rp, err := mqtt.NewRealPublisher(broker, "alarm-clock")
	if err != nil {
		log.Printf("mqtt disabled: %v", err)
		return nopPublisher{}, nil
	}
	async := mqtt.NewAsyncPublisher(rp, 64)
	return async, async
}

func printState(w io.Writer, in logic.Input, st logic.Status) {
	clockTime := "--:--:--"
	if st.TimeValid {
		clockTime = st.Time.String()
	}
	fmt.Fprintf(w, "MODE: %s, TIME: %s, ALARM: %s, ARMED: %s\n",
		st.Mode, clockTime, st.Alarm, stateString(st.Armed))
	fmt.Fprintf(w, "SET-TIME: %s, SET-ALARM: %s\n", stateString(in.SetTime), stateString(in.SetAlarm))
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("env file %s not found, network info unavailable", path)
			return
		}
		log.Printf("env file %s: %v", path, err)
	}
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

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
