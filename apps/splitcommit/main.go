//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/markkurossi/splitcommit/commit"
	"github.com/markkurossi/splitcommit/env"
	"golang.org/x/sync/errgroup"
)

func main() {
	receiver := flag.Bool("r", false, "receiver mode")
	pipe := flag.Bool("pipe", false, "run both parties over in-process pipes")
	addr := flag.String("addr", ":8080", "receiver address")
	n := flag.Int("n", 1<<20, "number of commitments")
	execs := flag.Int("execs", 1, "number of parallel executions")
	bits := flag.Int("bits", commit.CSec, "message size in bits (1 or 128)")
	gen := flag.String("gen", "", "generator matrix `file` of the 128-bit code")
	seed := flag.Uint64("seed", 0, "constant random seed (0 for crypto/rand)")
	verbose := flag.Bool("v", false, "verbose output")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	flag.Parse()

	log.SetFlags(0)

	if *n <= 0 || *execs <= 0 {
		log.Fatalf("invalid arguments: n=%d, execs=%d", *n, *execs)
	}

	if len(*cpuprofile) > 0 {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	opts := &Options{
		N:       *n,
		Execs:   *execs,
		Bits:    *bits,
		GenPath: *gen,
	}
	newConfig := func(role uint64) *env.Config {
		config := &env.Config{
			Verbose: *verbose,
		}
		if *seed != 0 {
			config.Rand = commit.NewSeededReader(*seed<<1 | role)
		}
		return config
	}

	var err error
	if *pipe {
		err = runPipe(opts, newConfig(0), newConfig(1))
	} else if *receiver {
		err = runReceiver(opts, newConfig(1), *addr)
	} else {
		err = runSender(opts, newConfig(0), *addr)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runPipe(opts *Options, sconfig, rconfig *env.Config) error {
	s, r := pipeConns(opts.Execs)

	var g errgroup.Group
	g.Go(func() error {
		timing, stats, err := Sender(opts, sconfig, s)
		if err != nil {
			return fmt.Errorf("sender: %w", err)
		}
		fmt.Printf("Sender: %d %d-bit commitments, %d executions\n",
			opts.N, opts.Bits, opts.Execs)
		timing.Print(os.Stdout, stats)
		return nil
	})
	g.Go(func() error {
		_, _, err := Receiver(opts, rconfig, r)
		if err != nil {
			return fmt.Errorf("receiver: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func runSender(opts *Options, config *env.Config, addr string) error {
	conns, err := dialConns(addr, opts.Execs)
	if err != nil {
		return err
	}
	timing, stats, err := Sender(opts, config, conns)
	if err != nil {
		return err
	}
	fmt.Printf("Sender: %d %d-bit commitments, %d executions\n",
		opts.N, opts.Bits, opts.Execs)
	timing.Print(os.Stdout, stats)
	return nil
}

func runReceiver(opts *Options, config *env.Config, addr string) error {
	conns, err := acceptConns(addr, opts.Execs)
	if err != nil {
		return err
	}
	timing, stats, err := Receiver(opts, config, conns)
	if err != nil {
		return err
	}
	fmt.Printf("Receiver: %d %d-bit commitments, %d executions\n",
		opts.N, opts.Bits, opts.Execs)
	timing.Print(os.Stdout, stats)
	return nil
}
