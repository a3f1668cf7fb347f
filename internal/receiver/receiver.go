// Package receiver implements the receiver facade (C10): it owns the radio
// handle and the stage chain, drives one tick per loop iteration, and
// delivers decoded packets to a callback, with pause/resume control and a
// graceful shutdown path the original design left to an implementer.
package receiver

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/radio"
	"github.com/kb9vor/ncofdm/internal/scheduler"
)

const (
	schedRR          = 2 // SCHED_RR, Linux sched.h
	rtPriorityTarget = 99
)

// schedParam mirrors struct sched_param from sched.h, the only field the
// RR/FIFO policies use.
type schedParam struct {
	priority int32
}

// Callback is invoked once per chain tick with the packets decoded on that
// tick; it may be invoked with an empty (nil) slice.
type Callback func(packets [][]byte)

// Receiver owns a Radio and a scheduler chain and runs the receive loop on
// its own goroutine.
type Receiver struct {
	log      zerolog.Logger
	radio    radio.Radio
	sched    *scheduler.Scheduler
	callback Callback

	pause chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// New builds a Receiver. chain is the ordered stage graph (typically
// underlay.Stage -> fftstage.Stage -> decoder.Stage); cb is invoked with
// each tick's decoded packets. The pause signal starts available, per
// spec.
func New(log zerolog.Logger, r radio.Radio, chain []scheduler.Stage, cb Callback) *Receiver {
	rc := &Receiver{
		log:      log.With().Str("component", "receiver").Logger(),
		radio:    r,
		sched:    scheduler.New(chain),
		callback: cb,
		pause:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	rc.pause <- struct{}{}
	return rc
}

// Run starts the receive loop. It blocks until Stop is called or the radio
// returns a fatal error, at which point it returns that error (nil on a
// clean Stop).
func (rc *Receiver) Run(ctx context.Context) error {
	defer close(rc.done)
	requestRealtimePriority(rc.log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-rc.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-rc.stop:
			return nil
		case <-rc.pause: // acquire
		}

		samples, err := rc.radio.GetSamples(ctx, pn.NumRxSamples)
		if err != nil {
			select {
			case <-rc.stop:
				return nil
			default:
			}
			rc.log.Error().Err(err).Msg("radio read failed, terminating receive loop")
			return err
		}

		out := rc.sched.ProcessSamples(samples)
		packets, _ := out.([][]byte)
		rc.callback(packets)
		rc.pause <- struct{}{} // release

		select {
		case <-rc.stop:
			return nil
		default:
		}
	}
}

// Pause acquires the pause signal, blocking the loop at the top of its
// next iteration until Resume is called.
func (rc *Receiver) Pause() { <-rc.pause }

// Resume releases the pause signal, unblocking a loop stopped by Pause.
func (rc *Receiver) Resume() { rc.pause <- struct{}{} }

// Stop flags the loop to exit and waits for it to do so. It also cancels
// the context Run passes to GetSamples, so a read blocked in a radio that
// honours ctx (LoopbackRadio) returns; PortAudioRadio's read is not
// interrupted. Supplements the
// spec's "no graceful shutdown" baseline, as its own design note invites.
func (rc *Receiver) Stop() {
	close(rc.stop)
	<-rc.done
	rc.sched.Close()
}

// requestRealtimePriority asks the OS scheduler for a round-robin
// real-time class at maximum priority, to bound jitter against sample
// deadlines. Failure is logged, not fatal.
func requestRealtimePriority(log zerolog.Logger) {
	runtime.LockOSThread()
	param := schedParam{priority: rtPriorityTarget}
	_, _, errno := unix.Syscall(unix.SYS_SCHED_SETSCHEDULER, 0, schedRR, uintptr(unsafe.Pointer(&param)))
	if errno != 0 {
		log.Warn().Err(errno).Msg("failed to acquire real-time scheduling priority")
	}
}
