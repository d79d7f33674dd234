// cmd/trajgen/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// trajgen reads linear flight plans and writes the kinematic plans
// generated from them, or, with -revert, recovers linear plans from
// kinematic ones.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mmp/trajgen/pkg/log"
	"github.com/mmp/trajgen/pkg/plan"
	"github.com/mmp/trajgen/pkg/trajgen"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

var (
	configFile = flag.String("config", "", "configuration file (YAML, JSON or TOML)")
	outFile    = flag.String("o", "", "output file; .msgpack.zst selects the binary format (default: stdout)")
	verbose    = flag.Bool("verbose", false, "write the verbose text format")
	revert     = flag.Bool("revert", false, "convert kinematic plans back to linear plans")
	check      = flag.Bool("check", false, "report whether each output plan is well formed, consistent and flyable")
	dump       = flag.Bool("dump", false, "dump each output plan's internal representation to stderr")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
)

type options struct {
	revert, check, dump bool
	workers             int
}

func main() {
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "usage: trajgen [flags] file...\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	v, cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.Log = lg
	lg.Info("configuration", "config", godump.DumpStr(cfg))

	opts := options{revert: *revert, check: *check, dump: *dump, workers: v.GetInt("workers")}
	cache := trajgen.NewCache(v.GetInt("cache.size"), v.GetDuration("cache.ttl"))

	plans, err := run(flag.Args(), opts, cfg, cache, os.Stderr)
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *outFile != "" {
		err = plan.WriteFile(*outFile, plans, *verbose)
	} else {
		err = plan.WriteText(os.Stdout, plans, *verbose)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	hits, misses := cache.Stats()
	lg.Info("done", "plans", len(plans), "cache_hits", hits, "cache_misses", misses)

	for _, p := range plans {
		if p.HasError() {
			os.Exit(1)
		}
	}
}

// run reads every plan in the given files and converts each one. Plans
// are processed concurrently; the result keeps the order of the input.
// Messages attached to the converted plans are reported to w.
func run(files []string, opts options, cfg trajgen.Config, cache *trajgen.Cache, w io.Writer) ([]*plan.Plan, error) {
	var in []*plan.Plan
	for _, f := range files {
		p, err := plan.ReadFile(f)
		if err != nil {
			return nil, err
		}
		in = append(in, p...)
	}

	out := make([]*plan.Plan, len(in))
	var eg errgroup.Group
	if opts.workers > 0 {
		eg.SetLimit(opts.workers)
	}
	for i, p := range in {
		eg.Go(func() error {
			if opts.revert {
				out[i] = trajgen.MakeLinearPlan(p)
			} else {
				out[i] = cache.MakeKinematicPlan(p, cfg)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, p := range out {
		report(w, p, opts, cfg)
	}
	return out, nil
}

func report(w io.Writer, p *plan.Plan, opts options, cfg trajgen.Config) {
	p.ErrorLog().LogTo(cfg.Log.With("plan", p.Name))
	if opts.check {
		tol := cfg.Tolerances
		fmt.Fprintf(w, "%s: %d points, well formed %v, consistent %v, flyable %v\n", p.Name, p.Size(),
			p.IsWellFormed(), p.IsConsistentTol(tol), p.IsFlyableTol(tol))
		for _, e := range p.FlyabilityErrors(tol) {
			fmt.Fprintf(w, "%s:   %s\n", p.Name, e)
		}
	}
	if opts.dump {
		godump.Fdump(w, p)
	}
}
