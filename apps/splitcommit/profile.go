//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"

	"github.com/markkurossi/splitcommit/commit"
	"github.com/markkurossi/splitcommit/env"
	"github.com/markkurossi/splitcommit/p2p"
)

// Options define the profiling run.
type Options struct {
	N       int
	Execs   int
	Bits    int
	GenPath string
}

// perExec returns the number of commitments of one execution.
func (opts *Options) perExec() int {
	return (opts.N + opts.Execs - 1) / opts.Execs
}

// Sender runs the sender side of the profiling protocol: seed OTs,
// commit, decommit, and batch decommit of all executions.
func Sender(opts *Options, config *env.Config, conns *Conns) (
	*Timing, p2p.IOStats, error) {

	defer conns.Close()

	timing := NewTiming(opts.N)
	last := p2p.NewIOStats()
	sample := func(label string) {
		stats := conns.Stats()
		timing.Sample(label, stats.Sub(last).Sum())
		last = stats
	}

	s := commit.NewSender(config)
	if err := s.SetMsgBitSize(opts.Bits, opts.GenPath); err != nil {
		return nil, last, err
	}
	err := s.ComputeAndSetSeedOTs(config.GetRandom(), conns.Base)
	if err != nil {
		return nil, last, err
	}
	senders, err := s.GetCloneSenders(opts.Execs)
	if err != nil {
		return nil, last, err
	}
	sample("Seed OT")

	n := opts.perExec()
	shares := make([]commit.Shares, opts.Execs)

	err = commit.RunParallel(opts.Execs, func(e int) error {
		shares[e] = senders[e].NewShares(n)
		return senders[e].Commit(shares[e], conns.Execs[e], commit.NoLSBStart,
			commit.Normal)
	})
	if err != nil {
		return nil, last, err
	}
	sample("Commit")

	err = commit.RunParallel(opts.Execs, func(e int) error {
		return senders[e].Decommit(shares[e], conns.Execs[e])
	})
	if err != nil {
		return nil, last, err
	}
	sample("Decommit")

	err = commit.RunParallel(opts.Execs, func(e int) error {
		return senders[e].BatchDecommit(shares[e], conns.Execs[e], false)
	})
	if err != nil {
		return nil, last, err
	}
	sample("BatchDecommit")

	return timing, conns.Stats(), nil
}

// Receiver runs the receiver side of the profiling protocol.
func Receiver(opts *Options, config *env.Config, conns *Conns) (
	*Timing, p2p.IOStats, error) {

	defer conns.Close()

	timing := NewTiming(opts.N)
	last := p2p.NewIOStats()
	sample := func(label string) {
		stats := conns.Stats()
		timing.Sample(label, stats.Sub(last).Sum())
		last = stats
	}

	r := commit.NewReceiver(config)
	if err := r.SetMsgBitSize(opts.Bits, opts.GenPath); err != nil {
		return nil, last, err
	}
	err := r.ComputeAndSetSeedOTs(config.GetRandom(), conns.Base)
	if err != nil {
		return nil, last, err
	}
	receivers, rands, err := r.GetCloneReceivers(opts.Execs,
		config.GetRandom())
	if err != nil {
		return nil, last, err
	}
	sample("Seed OT")

	n := opts.perExec()
	records := make([]*commit.Buffer, opts.Execs)

	verify := func(op string, e int, ok bool, err error) error {
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("execution %d: %s verification failed", e, op)
		}
		return nil
	}

	err = commit.RunParallel(opts.Execs, func(e int) error {
		records[e] = receivers[e].NewRecord(n)
		ok, err := receivers[e].Commit(records[e], rands[e], conns.Execs[e],
			commit.NoLSBStart, commit.Normal)
		return verify("commit", e, ok, err)
	})
	if err != nil {
		return nil, last, err
	}
	sample("Commit")

	err = commit.RunParallel(opts.Execs, func(e int) error {
		values := receivers[e].NewValues(n)
		ok, err := receivers[e].Decommit(records[e], values, conns.Execs[e])
		return verify("decommit", e, ok, err)
	})
	if err != nil {
		return nil, last, err
	}
	sample("Decommit")

	err = commit.RunParallel(opts.Execs, func(e int) error {
		values := receivers[e].NewValues(n)
		ok, err := receivers[e].BatchDecommit(records[e], values, rands[e],
			conns.Execs[e], false)
		return verify("batch decommit", e, ok, err)
	})
	if err != nil {
		return nil, last, err
	}
	sample("BatchDecommit")

	return timing, conns.Stats(), nil
}
