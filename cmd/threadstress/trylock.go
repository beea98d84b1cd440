// File: cmd/threadstress/trylock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// trylock measures non-blocking acquisition against a pulsing holder. The
// probes must never block: every attempt resolves to an immediate acquire
// or an immediate busy.

package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/mutex"
	"github.com/momentics/hioload-threads/thread"
)

var trylockCmd = &cobra.Command{
	Use:   "trylock",
	Short: "Measure non-blocking acquisition under a pulsing holder",
	Long: `Trylock starts one holder thread that takes and releases the target
mutex in pulses, plus the configured number of probe threads that attempt
non-blocking acquisition until the deadline. Probes report how many attempts
acquired and how many resolved busy.`,
	RunE: runTrylock,
}

// trylockState is shared through the entry arg. The aggregate counters are
// guarded by results, so the probes themselves dogfood a second mutex.
type trylockState struct {
	target   *mutex.Mutex
	results  *mutex.Mutex
	deadline time.Time
	pulse    time.Duration
	busy     int64
	acquired int64
}

func trylockHolder(arg any) int {
	st := arg.(*trylockState)
	for time.Now().Before(st.deadline) {
		if !st.target.Lock().Ok() {
			return 1
		}
		time.Sleep(st.pulse)
		if !st.target.Unlock().Ok() {
			return 2
		}
		time.Sleep(st.pulse / 2)
	}
	return 0
}

func trylockProbe(arg any) int {
	st := arg.(*trylockState)
	var busy, acquired int64
	for time.Now().Before(st.deadline) {
		s := st.target.TryLock()
		switch s.Code {
		case api.CodeSuccess:
			acquired++
			if !st.target.Unlock().Ok() {
				return 1
			}
		case api.CodeBusy:
			busy++
		default:
			return 2
		}
		thread.Yield()
	}

	if !st.results.Lock().Ok() {
		return 3
	}
	st.busy += busy
	st.acquired += acquired
	if !st.results.Unlock().Ok() {
		return 4
	}
	return 0
}

func runTrylock(cmd *cobra.Command, args []string) error {
	sc := scen.TryLock

	target, st := mutex.New(api.KindPlain)
	if !st.Ok() {
		return errors.Errorf("target mutex init: %s", st)
	}
	defer target.Destroy()
	results, st := mutex.New(api.KindPlain)
	if !st.Ok() {
		return errors.Errorf("results mutex init: %s", st)
	}
	defer results.Destroy()

	state := &trylockState{
		target:   target,
		results:  results,
		deadline: time.Now().Add(time.Duration(sc.DurationMS) * time.Millisecond),
		pulse:    time.Duration(sc.PulseMS) * time.Millisecond,
	}

	logrus.WithFields(logrus.Fields{
		"probes":      sc.Probes,
		"duration_ms": sc.DurationMS,
		"pulse_ms":    sc.PulseMS,
	}).Info("trylock starting")

	holder, st := thread.Create(trylockHolder, state)
	if !st.Ok() {
		return errors.Errorf("create holder: %s", st)
	}
	probes := make([]thread.Thread, 0, sc.Probes)
	for i := 0; i < sc.Probes; i++ {
		h, st := thread.Create(trylockProbe, state)
		if !st.Ok() {
			return errors.Errorf("create probe %d: %s", i, st)
		}
		probes = append(probes, h)
	}

	var code int
	if st := thread.Join(holder, &code); !st.Ok() {
		return errors.Errorf("join holder: %s", st)
	}
	if code != 0 {
		return errors.Errorf("holder failed a mutex operation (code %d)", code)
	}
	for i, h := range probes {
		if st := thread.Join(h, &code); !st.Ok() {
			return errors.Errorf("join probe %d: %s", i, st)
		}
		if code != 0 {
			return errors.Errorf("probe %d failed (code %d)", i, code)
		}
	}

	total := state.busy + state.acquired
	metrics.Set("trylock.busy", state.busy)
	metrics.Set("trylock.acquired", state.acquired)
	logrus.WithFields(logrus.Fields{
		"attempts": total,
		"acquired": state.acquired,
		"busy":     state.busy,
	}).Info("trylock finished")

	if total == 0 {
		return errors.New("probes made no attempts, deadline too short")
	}
	return nil
}
