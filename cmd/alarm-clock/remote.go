package main

import (
	"errors"

	"github.com/sweeney/alarm-clock/internal/logic"
)

var errRemoteBusy = errors.New("remote: press queue full")

// remoteQueue carries button presses from HTTP handlers to the tick loop.
// Press may be called from any goroutine; merge runs on the loop only.
type remoteQueue struct {
	presses   chan logic.Button
	holdTicks int

	// remaining polls for which a remote set button stays down
	setTime  int
	setAlarm int
}

// newRemoteQueue holds set-time and set-alarm presses long enough for the
// controller's long-press counter to pass longPress.
func newRemoteQueue(depth, longPress int) *remoteQueue {
	return &remoteQueue{
		presses:   make(chan logic.Button, depth),
		holdTicks: longPress + 2,
	}
}

// Press queues b without blocking.
func (q *remoteQueue) Press(b logic.Button) error {
	select {
	case q.presses <- b:
		return nil
	default:
		return errRemoteBusy
	}
}

// merge ORs at most one pending remote press into a poll of the physical
// buttons. Presses queued behind a held set button wait until it is released,
// so every press reaches the controller in the order it was queued.
func (q *remoteQueue) merge(in logic.Input) logic.Input {
	if q.setTime == 0 && q.setAlarm == 0 {
		select {
		case b := <-q.presses:
			switch b {
			case logic.ButtonSetTime:
				q.setTime = q.holdTicks
			case logic.ButtonSetAlarm:
				q.setAlarm = q.holdTicks
			default:
				in = in.Press(b)
			}
		default:
		}
	}

	if q.setTime > 0 {
		in.SetTime = true
		q.setTime--
	}
	if q.setAlarm > 0 {
		in.SetAlarm = true
		q.setAlarm--
	}
	return in
}
