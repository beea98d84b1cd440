// File: cmd/threadstress/soak.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// soak runs the contended-counter workload: N threads each take the shared
// mutex M times and increment a plain counter. Any lost update is a
// serialization failure and fails the run.

package main

import (
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-threads/affinity"
	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/mutex"
	"github.com/momentics/hioload-threads/thread"
)

var (
	flagSoakThreads    int
	flagSoakIncrements int
	flagSoakRecursive  bool
	flagSoakPin        bool
)

var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Run the contended-counter workload",
	Long: `Soak starts the configured number of threads, each of which locks the
shared mutex, increments a counter, and unlocks, for the configured number
of iterations. The run fails if the final counter shows lost updates or any
thread reports a failed mutex operation.`,
	RunE: runSoak,
}

func init() {
	soakCmd.Flags().IntVar(&flagSoakThreads, "threads", 0, "worker threads (default: scenario value)")
	soakCmd.Flags().IntVar(&flagSoakIncrements, "increments", 0, "increments per thread (default: scenario value)")
	soakCmd.Flags().BoolVar(&flagSoakRecursive, "recursive", false, "use a recursive mutex with one nested acquisition")
	soakCmd.Flags().BoolVar(&flagSoakPin, "pin", false, "pin workers to logical CPUs round-robin")
}

// soakState is shared by all workers through the entry arg; counter is
// guarded by m, seq hands out worker indexes.
type soakState struct {
	m          *mutex.Mutex
	increments int
	nested     bool
	pin        bool
	seq        int64
	counter    int
}

func soakWorker(arg any) int {
	st := arg.(*soakState)
	if st.pin {
		idx := int(atomic.AddInt64(&st.seq, 1) - 1)
		if err := affinity.SetAffinity(idx % runtime.NumCPU()); err != nil {
			control.Emit("affinity", map[string]any{"worker": idx, "err": err.Error()})
		}
	}
	for i := 0; i < st.increments; i++ {
		if !st.m.Lock().Ok() {
			return 1
		}
		if st.nested {
			if !st.m.Lock().Ok() {
				return 2
			}
		}
		st.counter++
		if st.nested {
			if !st.m.Unlock().Ok() {
				return 3
			}
		}
		if !st.m.Unlock().Ok() {
			return 4
		}
		if i&63 == 0 {
			thread.Yield()
		}
	}
	return 0
}

func runSoak(cmd *cobra.Command, args []string) error {
	sc := scen.Soak
	if flagSoakThreads > 0 {
		sc.Threads = flagSoakThreads
	}
	if flagSoakIncrements > 0 {
		sc.Increments = flagSoakIncrements
	}
	if flagSoakRecursive {
		sc.Recursive = true
	}
	if flagSoakPin {
		sc.Pin = true
	}

	kind := api.KindPlain
	if sc.Recursive {
		kind = api.KindRecursive
	}
	m, st := mutex.New(kind)
	if !st.Ok() {
		return errors.Errorf("mutex init: %s", st)
	}
	defer m.Destroy()

	logrus.WithFields(logrus.Fields{
		"threads":    sc.Threads,
		"increments": sc.Increments,
		"recursive":  sc.Recursive,
		"pin":        sc.Pin,
		"limit":      scen.Limit,
	}).Info("soak starting")

	state := &soakState{m: m, increments: sc.Increments, nested: sc.Recursive, pin: sc.Pin}
	handles := make([]thread.Thread, 0, sc.Threads)
	head := 0

	for created := 0; created < sc.Threads; {
		h, st := thread.Create(soakWorker, state)
		switch {
		case st.Ok():
			handles = append(handles, h)
			created++
			metrics.Add("soak.threads_started", 1)
		case st.Code == api.CodeNoMem:
			// At the thread limit: reap the oldest worker, then retry.
			if head == len(handles) {
				return errors.Errorf("thread create: %s with no worker left to reap", st)
			}
			if err := reapWorker(handles[head], head); err != nil {
				return err
			}
			head++
			metrics.Add("soak.threads_reaped", 1)
		default:
			return errors.Errorf("thread create: %s", st)
		}
	}

	for ; head < len(handles); head++ {
		if err := reapWorker(handles[head], head); err != nil {
			return err
		}
	}

	want := sc.Threads * sc.Increments
	metrics.Set("soak.counter", int64(state.counter))
	metrics.Set("soak.expected", int64(want))

	stats := thread.Stats()
	logrus.WithFields(logrus.Fields{
		"counter":  state.counter,
		"expected": want,
		"created":  stats.Created,
		"peak":     stats.Peak,
		"metrics":  metrics.GetSnapshot(),
	}).Info("soak finished")

	if state.counter != want {
		return errors.Errorf("lost updates: counter %d, expected %d", state.counter, want)
	}
	return nil
}

func reapWorker(h thread.Thread, idx int) error {
	var code int
	if st := thread.Join(h, &code); !st.Ok() {
		return errors.Errorf("join worker %d: %s", idx, st)
	}
	if code != 0 {
		return errors.Errorf("worker %d failed a mutex operation (code %d)", idx, code)
	}
	return nil
}
