//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"net"

	"github.com/markkurossi/splitcommit/p2p"
)

// Conns hold the base connection for the seed OTs and one connection
// for each parallel execution.
type Conns struct {
	Base  *p2p.Conn
	Execs []*p2p.Conn
}

// Stats returns the sum of the I/O statistics of all connections.
func (c *Conns) Stats() p2p.IOStats {
	stats := c.Base.Stats.Clone()
	for _, conn := range c.Execs {
		stats = stats.Add(conn.Stats)
	}
	return stats
}

// Close closes all connections.
func (c *Conns) Close() error {
	err := c.Base.Close()
	for _, conn := range c.Execs {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func pipeConns(execs int) (*Conns, *Conns) {
	s := &Conns{
		Execs: make([]*p2p.Conn, execs),
	}
	r := &Conns{
		Execs: make([]*p2p.Conn, execs),
	}
	s.Base, r.Base = p2p.Pipe()
	for e := 0; e < execs; e++ {
		s.Execs[e], r.Execs[e] = p2p.Pipe()
	}
	return s, r
}

func dialConns(addr string, execs int) (*Conns, error) {
	dial := func(id int) (*p2p.Conn, error) {
		nc, err := net.Dial("tcp", addr)
		if err != nil {
			return nil, err
		}
		conn := p2p.NewConn(nc)
		if err := conn.SendUint32(id); err != nil {
			return nil, err
		}
		if err := conn.Flush(); err != nil {
			return nil, err
		}
		return conn, nil
	}

	base, err := dial(0)
	if err != nil {
		return nil, err
	}
	result := &Conns{
		Base:  base,
		Execs: make([]*p2p.Conn, execs),
	}
	for e := 0; e < execs; e++ {
		result.Execs[e], err = dial(e + 1)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func acceptConns(addr string, execs int) (*Conns, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	fmt.Printf("Listening for connections at %s\n", addr)

	result := &Conns{
		Execs: make([]*p2p.Conn, execs),
	}
	for i := 0; i <= execs; i++ {
		nc, err := ln.Accept()
		if err != nil {
			return nil, err
		}
		conn := p2p.NewConn(nc)
		id, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		if id > execs {
			return nil, fmt.Errorf("invalid connection id %d", id)
		}
		if id == 0 {
			if result.Base != nil {
				return nil, fmt.Errorf("duplicate connection id %d", id)
			}
			result.Base = conn
		} else {
			if result.Execs[id-1] != nil {
				return nil, fmt.Errorf("duplicate connection id %d", id)
			}
			result.Execs[id-1] = conn
		}
	}
	return result, nil
}
