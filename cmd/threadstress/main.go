// File: cmd/threadstress/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// threadstress drives the thread and mutex layers from the command line:
// soak runs a contended counter workload, trylock measures non-blocking
// acquisition behavior, probes dumps live debug state.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-threads/adapters"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/thread"
)

var (
	// flagConfig is set by the --config flag.
	flagConfig   string
	flagLogLevel string
	flagTrace    bool
	flagLimit    int

	// scen is the loaded scenario, available to all subcommands.
	scen *Scenario

	// store distributes scenario values; its reload listener applies the
	// thread limit, so a SetConfig re-applies limits without restarting.
	store = control.NewConfigStore()

	// metrics collects workload counters for the final report.
	metrics = control.NewMetricsRegistry()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "threadstress",
	Short: "Stress and inspection harness for the thread and mutex layers",
	Long: `threadstress exercises the portable thread and mutex surface with
configurable workloads. Scenarios come from a YAML file; flags override
individual values.`,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "scenario file (default: built-in scenario)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "logrus level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "log native-layer trace events")
	rootCmd.PersistentFlags().IntVar(&flagLimit, "limit", -1, "live thread limit, 0 unbounded (default: scenario value)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(soakCmd)
	rootCmd.AddCommand(trylockCmd)
	rootCmd.AddCommand(probesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("threadstress v0.1.0")
	},
}

// setup configures logging, loads the scenario, and pushes it through the
// config store so the limit listener runs.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return errors.Wrapf(err, "parse log level %q", flagLogLevel)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if flagTrace {
		control.SetTracer(adapters.NewLogrusTracer(logrus.StandardLogger()))
	}

	scen, err = LoadScenario(flagConfig)
	if err != nil {
		return err
	}
	if flagLimit >= 0 {
		scen.Limit = flagLimit
	}

	store.OnReload(applyLimit)
	store.SetConfig(map[string]any{"thread_limit": scen.Limit})
	return nil
}

// applyLimit reads the current thread limit from the config store and
// applies it. Registered as a reload listener, so every SetConfig
// re-applies the bound.
func applyLimit() {
	v, ok := store.Get("thread_limit")
	if !ok {
		return
	}
	limit, ok := v.(int)
	if !ok {
		logrus.WithField("value", v).Warn("thread_limit is not an int, ignoring")
		return
	}
	thread.SetLimit(limit)
	logrus.WithField("limit", limit).Debug("thread limit applied")
}
