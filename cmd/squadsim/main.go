// cmd/squadsim/main.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/goforj/godump"

	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/sim"
	"github.com/ColbySawyer7/monte-carlo-sub002/snapshot"
	"github.com/ColbySawyer7/monte-carlo-sub002/squadlog"
	"github.com/ColbySawyer7/monte-carlo-sub002/util"
)

var (
	scenarioFilename  = flag.String("scenario", "", "filename of JSON scenario definition (required)")
	snapshotFilename  = flag.String("snapshot", "", "filename of JSON resource snapshot (required)")
	overridesFilename = flag.String("overrides", "", "filename of JSON operator overrides (optional)")
	seed              = flag.Uint64("seed", 1, "random seed; identical seed and inputs reproduce identical results")
	logLevel          = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir            = flag.String("logdir", "", "log file directory (empty = stderr only)")
	dump              = flag.Bool("dump", false, "pretty-print the full Results struct to stderr in addition to the JSON on stdout")
)

func readJSON[T any](path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var out T
	if err := util.DecodeStrict(b, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &out, nil
}

func main() {
	flag.Parse()

	if *scenarioFilename == "" || *snapshotFilename == "" {
		fmt.Fprintln(os.Stderr, "squadsim: -scenario and -snapshot are required")
		flag.Usage()
		os.Exit(2)
	}

	lg := squadlog.New(*logLevel, *logDir)

	scn, err := readJSON[scenario.Scenario](*scenarioFilename)
	if err != nil {
		lg.Error("loading scenario", "err", err)
		os.Exit(1)
	}

	raw, err := readJSON[snapshot.Raw](*snapshotFilename)
	if err != nil {
		lg.Error("loading snapshot", "err", err)
		os.Exit(1)
	}

	var overrides *snapshot.Overrides
	if *overridesFilename != "" {
		overrides, err = readJSON[snapshot.Overrides](*overridesFilename)
		if err != nil {
			lg.Error("loading overrides", "err", err)
			os.Exit(1)
		}
	}

	res, err := sim.Run(scn, raw, overrides, *seed, lg)
	if err != nil {
		lg.Error("run failed", "err", err)
		os.Exit(1)
	}

	if *dump {
		godump.Dump(res)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		lg.Error("encoding results", "err", err)
		os.Exit(1)
	}
}
