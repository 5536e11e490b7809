//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"errors"
	"io"
)

// Pipe creates a pair of connected in-memory connections. Data sent
// to one end can be received from the other end. Both directions are
// synchronous io.Pipe streams: the Conn writer goroutine blocks until
// the peer reads the data.
func Pipe() (*Conn, *Conn) {
	ar, aw := io.Pipe()
	br, bw := io.Pipe()

	return NewConn(&pipeEnd{
			PipeReader: ar,
			PipeWriter: bw,
		}), NewConn(&pipeEnd{
			PipeReader: br,
			PipeWriter: aw,
		})
}

type pipeEnd struct {
	*io.PipeReader
	*io.PipeWriter
}

// Close closes both directions. The peer sees io.EOF on its reads
// and io.ErrClosedPipe on its writes.
func (p *pipeEnd) Close() error {
	return errors.Join(p.PipeReader.Close(), p.PipeWriter.Close())
}
