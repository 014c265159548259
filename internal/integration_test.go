package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/board"
	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/status"
)

const ticksPerSecond = 10

// bench is the whole clock on fake GPIO: buttons and buzzer on FakeLines,
// the display multiplexed over FakeGroups.
type bench struct {
	t         *testing.T
	backend   *gpio.FakeBackend
	pins      board.Pins
	board     *board.Board
	engine    *clock.Engine
	renderer  *display.Renderer
	ctrl      *logic.Controller
	publisher *mqtt.FakePublisher
	tracker   *status.Tracker
	now       time.Time
}

func newBench(t *testing.T, cfg logic.Config) *bench {
	t.Helper()
	b := &bench{
		t:         t,
		backend:   gpio.NewFakeBackend(),
		pins:      board.DefaultPins(),
		publisher: mqtt.NewFakePublisher(),
		now:       time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	pool := gpio.NewPool(b.backend, gpio.DefaultInputs, gpio.DefaultOutputs)
	driver, err := board.NewLineDriver(pool, b.pins.Segments, b.pins.Digits[:4])
	if err != nil {
		t.Fatalf("line driver: %v", err)
	}
	if b.board, err = board.New(pool, b.pins, driver); err != nil {
		t.Fatalf("board: %v", err)
	}
	b.engine = clock.NewEngine(ticksPerSecond, b.board.Sound)
	if b.renderer, err = display.New(4, b.board.Display); err != nil {
		t.Fatalf("display: %v", err)
	}
	b.ctrl = logic.NewController(cfg, b.engine.Keeper, b.engine.Alarm, b.renderer)
	b.tracker = status.NewTracker(b.now, status.Config{Digits: 4, Backend: "fake", Display: "gpio"})
	return b
}

func testConfig() logic.Config {
	cfg := logic.DefaultConfig()
	cfg.LongPressTicks = 3
	cfg.IdleTicks = 20
	cfg.SnoozeMinutes = 1
	return cfg
}

// step runs one iteration of the daemon loop and returns its events.
func (b *bench) step() []logic.Event {
	b.t.Helper()
	b.now = b.now.Add(time.Second / ticksPerSecond)
	if err := b.renderer.Refresh(); err != nil {
		b.t.Fatalf("refresh: %v", err)
	}
	events := b.ctrl.Tick(b.engine.Update())
	in, err := b.board.Sample()
	if err != nil {
		b.t.Logf("sample: %v", err)
	}
	events = append(events, b.ctrl.Step(in)...)
	for _, e := range events {
		if err := b.publisher.Publish(e, b.now); err != nil {
			b.t.Logf("publish error: %v", err)
		}
	}
	b.tracker.Update(b.ctrl.Status())
	return events
}

func (b *bench) run(n int) []logic.Event {
	var events []logic.Event
	for i := 0; i < n; i++ {
		events = append(events, b.step()...)
	}
	return events
}

// hold pulls a button line low for n iterations, then releases it.
func (b *bench) hold(pin, n int) []logic.Event {
	b.backend.Line(pin).Level = 0
	events := b.run(n)
	b.backend.Line(pin).Level = 1
	return append(events, b.step()...)
}

func (b *bench) press(pin int) []logic.Event {
	return b.hold(pin, 1)
}

func (b *bench) buzzer() int {
	return b.backend.Line(b.pins.Buzzer).Level
}

func types(events []logic.Event) []logic.EventType {
	out := make([]logic.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func count(events []logic.Event, typ logic.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// TestIntegrationFullFlow sets the time and the alarm from the buttons,
// arms it, lets it ring at midnight and dismisses it.
func TestIntegrationFullFlow(t *testing.T) {
	b := newBench(t, testConfig())
	if b.ctrl.Mode() != logic.ModeUnconfigured {
		t.Fatalf("initial mode: got %s", b.ctrl.Mode())
	}

	// set time 23:59
	b.hold(b.pins.SetTime, 6)
	if b.ctrl.Mode() != logic.ModeSetMinutesCurrent {
		t.Fatalf("after set-time hold: got %s", b.ctrl.Mode())
	}
	b.press(b.pins.Decrement)
	b.press(b.pins.Accept)
	b.press(b.pins.Decrement)
	events := b.press(b.pins.Accept)
	if count(events, logic.EventTimeSet) != 1 {
		t.Fatalf("expected TIME_SET, got %v", types(events))
	}
	if now, valid := b.engine.Keeper.Time(); !valid || now.HHMM() != [4]uint8{2, 3, 5, 9} {
		t.Fatalf("time after set: %s valid=%v", now, valid)
	}

	// alarm 00:00, then arm
	b.hold(b.pins.SetAlarm, 6)
	if b.ctrl.Mode() != logic.ModeSetMinutesAlarm {
		t.Fatalf("after set-alarm hold: got %s", b.ctrl.Mode())
	}
	b.press(b.pins.Accept)
	events = b.press(b.pins.Accept)
	if count(events, logic.EventAlarmSet) != 1 {
		t.Fatalf("expected ALARM_SET, got %v", types(events))
	}
	events = b.press(b.pins.Accept)
	if count(events, logic.EventAlarmArmed) != 1 {
		t.Fatalf("expected ALARM_ARMED, got %v", types(events))
	}
	if b.buzzer() != 0 {
		t.Fatal("buzzer on before the alarm time")
	}

	events = b.run(61 * ticksPerSecond)
	if count(events, logic.EventAlarmRinging) != 1 {
		t.Fatalf("expected one ALARM_RINGING, got %v", types(events))
	}
	if b.buzzer() != 1 {
		t.Error("buzzer should be on while ringing")
	}

	events = b.press(b.pins.Cancel)
	if count(events, logic.EventAlarmDismissed) != 1 {
		t.Fatalf("expected ALARM_DISMISSED, got %v", types(events))
	}
	if b.buzzer() != 0 {
		t.Error("buzzer should be off after dismiss")
	}

	snap := b.tracker.Snapshot()
	c := snap.Clock.Counts
	if c.TimeSet != 1 || c.AlarmSet != 1 || c.Ringing != 1 || c.Dismissed != 1 {
		t.Errorf("counts: %+v", c)
	}
	if !snap.Clock.Armed {
		t.Error("dismiss keeps the alarm armed")
	}

	if len(b.publisher.Events) == 0 {
		t.Fatal("no events published")
	}
	var last mqtt.Payload
	if err := json.Unmarshal(b.publisher.Payloads[len(b.publisher.Payloads)-1], &last); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if last.Clock.Event != "ALARM_DISMISSED" || last.Clock.Alarm != "00:00:00" {
		t.Errorf("last payload: %+v", last.Clock)
	}
}

func TestIntegrationDisplayDrivesLines(t *testing.T) {
	b := newBench(t, testConfig())
	d, _ := clock.ParseDigits("12:34:00")
	b.engine.Keeper.SetTime(d)
	b.run(8)

	if len(b.backend.Groups) != 2 {
		t.Fatalf("expected segment and digit groups, got %d", len(b.backend.Groups))
	}
	segs, digits := b.backend.Groups[0], b.backend.Groups[1]
	if segs.Writes != 8 {
		t.Errorf("segment writes: got %d, want 8", segs.Writes)
	}
	// one ScreenOff from display.New, then ScreenOff and DigitOn per refresh
	if digits.Writes != 17 {
		t.Errorf("digit writes: got %d, want 17", digits.Writes)
	}
	mem := b.renderer.Memory()
	want := []byte{display.Image(1), display.Image(2), display.Image(3), display.Image(4)}
	for i := range want {
		if mem[i]&^display.SegmentDP != want[i] {
			t.Errorf("digit %d: got %08b, want %08b", i, mem[i], want[i])
		}
	}

	// last refresh lit exactly one digit
	lit := 0
	for _, v := range digits.Values {
		lit += v
	}
	if lit != 1 {
		t.Errorf("expected one digit lit, got %v", digits.Values)
	}
}

func TestIntegrationSnoozeRefires(t *testing.T) {
	b := newBench(t, testConfig())
	now, _ := clock.ParseDigits("06:59:59")
	target, _ := clock.ParseDigits("07:00:00")
	b.engine.Keeper.SetTime(now)
	b.engine.Alarm.SetTarget(target)
	b.engine.Alarm.Arm(true)

	events := b.run(ticksPerSecond)
	if count(events, logic.EventAlarmRinging) != 1 {
		t.Fatalf("expected ALARM_RINGING, got %v", types(events))
	}

	events = b.press(b.pins.Accept)
	if count(events, logic.EventAlarmSnoozed) != 1 {
		t.Fatalf("expected ALARM_SNOOZED, got %v", types(events))
	}
	if b.buzzer() != 0 {
		t.Error("buzzer should be off while snoozing")
	}

	events = b.run(50 * ticksPerSecond)
	if count(events, logic.EventAlarmRinging) != 0 {
		t.Fatal("alarm rang again before the snooze ran out")
	}
	if rem := b.engine.Alarm.SnoozeRemaining(); rem == 0 || rem > 11 {
		t.Errorf("snooze remaining: got %d", rem)
	}

	events = b.run(11 * ticksPerSecond)
	if count(events, logic.EventAlarmRinging) != 1 {
		t.Fatalf("expected the snooze to ring again, got %v", types(events))
	}
	if b.buzzer() != 1 {
		t.Error("buzzer should be on after the snooze")
	}
	if got := b.ctrl.Counts(); got.Ringing != 2 || got.Snoozed != 1 {
		t.Errorf("counts: %+v", got)
	}
}

func TestIntegrationIdleTimeoutAbandonsEdit(t *testing.T) {
	b := newBench(t, testConfig())
	d, _ := clock.ParseDigits("08:00:00")
	b.engine.Keeper.SetTime(d)

	b.hold(b.pins.SetTime, 6)
	b.press(b.pins.Increment)
	if b.ctrl.Edit() != [4]uint8{0, 8, 0, 1} {
		t.Fatalf("edit: got %v", b.ctrl.Edit())
	}

	b.run(testConfig().IdleTicks + 2)
	if b.ctrl.Mode() != logic.ModeShowingTime {
		t.Fatalf("mode after idle: got %s", b.ctrl.Mode())
	}
	if now, _ := b.engine.Keeper.Time(); now.HHMM() != [4]uint8{0, 8, 0, 0} {
		t.Errorf("abandoned edit changed the time: %s", now)
	}
	if b.ctrl.Counts().TimeSet != 0 {
		t.Error("abandoned edit counted as TIME_SET")
	}
}

func TestIntegrationButtonReadErrorRecovers(t *testing.T) {
	b := newBench(t, testConfig())
	d, _ := clock.ParseDigits("08:00:00")
	b.engine.Keeper.SetTime(d)

	accept := b.backend.Line(b.pins.Accept)
	accept.ReadError = errors.New("line busy")
	accept.Level = 0
	if _, err := b.board.Sample(); err == nil {
		t.Fatal("expected sample error")
	}
	b.run(3)
	if b.engine.Alarm.IsArmed() {
		t.Fatal("alarm armed during read errors")
	}

	accept.ReadError = nil
	events := b.step()
	if count(events, logic.EventAlarmArmed) != 1 {
		t.Errorf("expected ALARM_ARMED once the line reads again, got %v", types(events))
	}
}

func TestIntegrationPublishFailureDoesNotCrash(t *testing.T) {
	b := newBench(t, testConfig())
	d, _ := clock.ParseDigits("08:00:00")
	b.engine.Keeper.SetTime(d)
	b.publisher.PublishError = errors.New("broker down")

	b.press(b.pins.Accept)
	b.press(b.pins.Cancel)

	if len(b.publisher.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(b.publisher.Events))
	}
	if b.ctrl.Counts() != (logic.EventCounts{}) {
		t.Errorf("counts: %+v", b.ctrl.Counts())
	}
	if b.engine.Alarm.IsArmed() {
		t.Error("cancel should leave the alarm disarmed")
	}
}

// TestIntegrationPayloadFormat verifies the exact JSON structure.
func TestIntegrationPayloadFormat(t *testing.T) {
	at := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)
	alarm, _ := clock.ParseDigits("06:30:00")
	now, _ := clock.ParseDigits("06:00:00")

	tests := []struct {
		name  string
		event logic.Event
		want  string
	}{
		{
			name: "configured",
			event: logic.Event{
				Type:      logic.EventAlarmSet,
				Mode:      logic.ModeSetHoursAlarm,
				Time:      now,
				TimeValid: true,
				Alarm:     alarm,
				Armed:     true,
			},
			want: `{"clock":{"timestamp":"2026-02-02T22:18:12Z","event":"ALARM_SET","mode":"SET_HOURS_ALARM","time":"06:00:00","alarm":"06:30:00","armed":true,"sounding":false}}`,
		},
		{
			name: "unconfigured",
			event: logic.Event{
				Type: logic.EventMode,
				Mode: logic.ModeUnconfigured,
			},
			want: `{"clock":{"timestamp":"2026-02-02T22:18:12Z","event":"MODE","mode":"UNCONFIGURED","alarm":"00:00:00","armed":false,"sounding":false}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := mqtt.NewFakePublisher()
			if err := publisher.Publish(tt.event, at); err != nil {
				t.Fatal(err)
			}
			if got := string(publisher.Payloads[0]); got != tt.want {
				t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", got, tt.want)
			}
		})
	}
}

// TestIntegrationStartupThenShutdown verifies the lifecycle events share a
// boot id and carry the clock state.
func TestIntegrationStartupThenShutdown(t *testing.T) {
	b := newBench(t, testConfig())
	b.tracker.Update(b.ctrl.Status())

	snap := b.tracker.Snapshot()
	b.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})

	b.hold(b.pins.SetTime, 6)
	b.press(b.pins.Accept)
	b.press(b.pins.Accept)

	snap = b.tracker.Snapshot()
	b.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"),
	})

	if len(b.publisher.SystemPayloads) != 2 {
		t.Fatalf("expected 2 system payloads, got %d", len(b.publisher.SystemPayloads))
	}
	var startup, shutdown status.StatusJSON
	if err := json.Unmarshal(b.publisher.SystemPayloads[0], &startup); err != nil {
		t.Fatalf("startup payload: %v", err)
	}
	if err := json.Unmarshal(b.publisher.SystemPayloads[1], &shutdown); err != nil {
		t.Fatalf("shutdown payload: %v", err)
	}

	if startup.Status.BootID == "" || startup.Status.BootID != shutdown.Status.BootID {
		t.Errorf("boot ids: %q vs %q", startup.Status.BootID, shutdown.Status.BootID)
	}
	if startup.Status.Mode != "UNCONFIGURED" || startup.Status.Time != "" {
		t.Errorf("startup: mode=%q time=%q", startup.Status.Mode, startup.Status.Time)
	}
	if shutdown.Status.Mode != "SHOWING_TIME" || shutdown.Status.Time == "" {
		t.Errorf("shutdown: mode=%q time=%q", shutdown.Status.Mode, shutdown.Status.Time)
	}
	if shutdown.Status.Reason != "SIGTERM" || shutdown.Status.Counts.TimeSet != 1 {
		t.Errorf("shutdown: reason=%q time_set=%d", shutdown.Status.Reason, shutdown.Status.Counts.TimeSet)
	}
	if shutdown.Status.Config.Display != "gpio" {
		t.Errorf("config display: got %q", shutdown.Status.Config.Display)
	}
}

func TestIntegrationBoardCloseReleasesLines(t *testing.T) {
	b := newBench(t, testConfig())
	b.engine.Alarm.Arm(true)
	b.board.Sound(true)
	if b.buzzer() != 1 {
		t.Fatal("buzzer not driven")
	}

	if err := b.board.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if b.buzzer() != 0 {
		t.Error("buzzer left on after close")
	}
	if !b.backend.Closed {
		t.Error("backend not closed")
	}
	for off, l := range b.backend.Lines {
		if !l.Closed {
			t.Errorf("line %d not closed", off)
		}
	}
	for i, g := range b.backend.Groups {
		if !g.Closed {
			t.Errorf("group %d not closed", i)
		}
	}
}
