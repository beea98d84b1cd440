// File: cmd/threadstress/probes.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// probes dumps the live debug state: backend identity, thread accounting,
// per-thread identities, mutex count, and platform probes.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-threads/backend"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/mutex"
	"github.com/momentics/hioload-threads/thread"
)

var flagProbeSpawn int

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "Dump live debug state as YAML",
	RunE:  runProbes,
}

func init() {
	probesCmd.Flags().IntVar(&flagProbeSpawn, "spawn", 0, "parked threads to hold live during the dump")
}

func runProbes(cmd *cobra.Command, args []string) error {
	dp := control.NewDebugProbes()
	dp.RegisterProbe("backend", func() any { return backend.Get().Name() })
	dp.RegisterProbe("threads.stats", func() any { return thread.Stats() })
	dp.RegisterProbe("threads.live", func() any { return thread.Snapshot() })
	dp.RegisterProbe("mutexes.live", func() any { return mutex.Live() })
	control.RegisterPlatformProbes(dp)

	// Optionally park a few threads so the dump shows live entries.
	release := make(chan struct{})
	parked := make([]thread.Thread, 0, flagProbeSpawn)
	for i := 0; i < flagProbeSpawn; i++ {
		h, st := thread.Create(func(any) int {
			<-release
			return 0
		}, nil)
		if !st.Ok() {
			close(release)
			return errors.Errorf("spawn parked thread %d: %s", i, st)
		}
		parked = append(parked, h)
	}

	out, err := yaml.Marshal(dp.DumpState())

	close(release)
	for i, h := range parked {
		if st := thread.Join(h, nil); !st.Ok() {
			return errors.Errorf("join parked thread %d: %s", i, st)
		}
	}

	if err != nil {
		return errors.Wrap(err, "marshal debug state")
	}
	fmt.Print(string(out))
	return nil
}
