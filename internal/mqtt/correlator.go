package mqtt

import (
	"errors"
	"sync"
	"time"

	"aquarium_control/internal/logger"
)

// DefaultAwaitTimeout bounds how long a command waits for its device
// acknowledgement.
const DefaultAwaitTimeout = 30 * time.Second

// ErrResponseTimeout reports that no acknowledgement arrived within the
// await window. The underlying command is not retracted; a late ack is
// discarded by Deliver.
var ErrResponseTimeout = errors.New("response timeout")

// ErrAwaitInProgress reports a second Arm while a request is outstanding.
// The bridge supports at most one outstanding device request; the gateway
// serializes commands with a mutex, so hitting this is a caller bug.
var ErrAwaitInProgress = errors.New("another device request is outstanding")

// Correlator converts the asynchronous acknowledgement topic into a
// synchronous reply for the one caller blocked on Await. It is the bridge's
// single-slot pending request.
type Correlator struct {
	log *logger.Logger

	mu sync.Mutex
	ch chan string // non-nil while a request is armed
}

func NewCorrelator(log *logger.Logger) *Correlator {
	return &Correlator{log: log}
}

// Arm opens the single pending-request slot. Must be called before the
// command is published so a fast ack cannot be missed. The slot stays open
// until Reset, even after the ack has been buffered: an ack arriving before
// the caller reaches Await still has to be consumable.
func (c *Correlator) Arm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ch != nil {
		return ErrAwaitInProgress
	}
	c.ch = make(chan string, 1)
	return nil
}

// Await blocks the calling goroutine (never the dispatch loop) until the
// acknowledgement arrives or the timeout elapses. timeout <= 0 uses
// DefaultAwaitTimeout.
func (c *Correlator) Await(timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}

	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	if ch == nil {
		return "", ErrResponseTimeout
	}

	select {
	case payload := <-ch:
		return payload, nil
	case <-time.After(timeout):
		// Close the slot so the eventual late ack is discarded as dangling.
		c.Reset()
		return "", ErrResponseTimeout
	}
}

// Deliver hands an inbound acknowledgement to the armed slot. A delivery
// with no request armed (dangling ack after a timeout) is logged and
// dropped without error.
func (c *Correlator) Deliver(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch == nil {
		c.log.Infow("dangling_ack_discarded", "payload", payload)
		return
	}

	select {
	case c.ch <- payload:
	default:
		// Slot already filled; only one ack per request is consumed.
		c.log.Infow("duplicate_ack_discarded", "payload", payload)
	}
}

// Reset clears any stored response and closes the slot, preparing it for
// the next command.
func (c *Correlator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ch = nil
}
