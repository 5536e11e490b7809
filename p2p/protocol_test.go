//
// protocol_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/markkurossi/splitcommit/ot"
)

func pattern(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

var tests = []interface{}{
	byte(42),
	uint16(43),
	uint32(44),
	"Hello, world!",
	ot.Label{D0: 0x0123456789abcdef, D1: 0xfedcba9876543210},
	pattern(0),
	pattern(1024),
	pattern(writeBufSize - 3),
	pattern(2 * 1024 * 1024),
	pattern(16 * 1024 * 1024),
}

func writer(c *Conn) {
	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			if err := c.SendByte(d); err != nil {
				fmt.Printf("SendByte: %v\n", err)
			}

		case uint16:
			if err := c.SendUint16(int(d)); err != nil {
				fmt.Printf("SendUint16: %v\n", err)
			}

		case uint32:
			if err := c.SendUint32(int(d)); err != nil {
				fmt.Printf("SendUint32: %v\n", err)
			}

		case string:
			if err := c.SendString(d); err != nil {
				fmt.Printf("SendString: %v\n", err)
			}

		case ot.Label:
			var ld ot.LabelData
			if err := c.SendLabel(d, &ld); err != nil {
				fmt.Printf("SendLabel: %v\n", err)
			}

		case []byte:
			if err := c.SendData(d); err != nil {
				fmt.Printf("SendData [%v]byte: %v\n", len(d), err)
			}

		default:
			fmt.Printf("writer: invalid data: %v(%T)\n", test, test)
		}
	}
	if err := c.Flush(); err != nil {
		fmt.Printf("Flush: %v\n", err)
	}
}

func TestProtocol(t *testing.T) {
	cw, c := Pipe()

	go writer(cw)

	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			v, err := c.ReceiveByte()
			if err != nil {
				t.Fatalf("ReceiveByte: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveByte: got %v, expected %v", v, d)
			}

		case uint16:
			v, err := c.ReceiveUint16()
			if err != nil {
				t.Fatalf("ReceiveUint16: %v", err)
			}
			if v != int(d) {
				t.Errorf("ReceiveUint16: got %v, expected %v", v, d)
			}

		case uint32:
			v, err := c.ReceiveUint32()
			if err != nil {
				t.Fatalf("ReceiveUint32: %v", err)
			}
			if v != int(d) {
				t.Errorf("ReceiveUint32: got %v, expected %v", v, d)
			}

		case string:
			v, err := c.ReceiveString()
			if err != nil {
				t.Fatalf("ReceiveString: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveString: got %v, expected %v", v, d)
			}

		case ot.Label:
			var v ot.Label
			var ld ot.LabelData
			if err := c.ReceiveLabel(&v, &ld); err != nil {
				t.Fatalf("ReceiveLabel: %v", err)
			}
			if !v.Equal(d) {
				t.Errorf("ReceiveLabel: got %v, expected %v", v, d)
			}

		case []byte:
			v, err := c.ReceiveData()
			if err != nil {
				t.Fatalf("ReceiveData: %v", err)
			}
			if !bytes.Equal(v, d) {
				t.Errorf("ReceiveData: [%v]byte mismatch, expected [%v]byte",
					len(v), len(d))
			}

		default:
			t.Errorf("invalid value: %v(%T)", test, test)
		}
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestReceiveDataInto(t *testing.T) {
	c0, c1 := Pipe()

	large := pattern(3 * readBufSize / 2)

	go func() {
		c0.SendData([]byte{1, 2, 3})
		c0.SendData(large)
		c0.SendData([]byte{4, 5, 6, 7})
		c0.Flush()
	}()

	var buf [3]byte
	if err := c1.ReceiveDataInto(buf[:]); err != nil {
		t.Fatalf("ReceiveDataInto: %v", err)
	}
	if !bytes.Equal(buf[:], []byte{1, 2, 3}) {
		t.Errorf("ReceiveDataInto: got %x", buf)
	}

	got := make([]byte, len(large))
	if err := c1.ReceiveDataInto(got); err != nil {
		t.Fatalf("ReceiveDataInto: %v", err)
	}
	if !bytes.Equal(got, large) {
		t.Errorf("ReceiveDataInto: large frame mismatch")
	}

	err := c1.ReceiveDataInto(buf[:])
	if !errors.Is(err, ErrFrameSize) {
		t.Errorf("ReceiveDataInto: expected ErrFrameSize, got %v", err)
	}
}

func TestStats(t *testing.T) {
	c0, c1 := Pipe()

	done := make(chan error)
	go func() {
		_, err := c1.ReceiveData()
		done <- err
	}()

	if err := c0.SendData(make([]byte, 100)); err != nil {
		t.Fatal(err)
	}
	if err := c0.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if c0.Stats.Sent.Load() != 104 {
		t.Errorf("sent %v, expected 104", c0.Stats.Sent.Load())
	}
	if c1.Stats.Recvd.Load() != 104 {
		t.Errorf("received %v, expected 104", c1.Stats.Recvd.Load())
	}

	snapshot := c0.Stats.Clone()
	if err := c0.SendUint32(1); err != nil {
		t.Fatal(err)
	}
	go c1.ReceiveUint32()
	if err := c0.Flush(); err != nil {
		t.Fatal(err)
	}
	diff := c0.Stats.Sub(snapshot)
	if diff.Sent.Load() != 4 || diff.Flushed.Load() != 1 {
		t.Errorf("diff: sent=%v flushed=%v",
			diff.Sent.Load(), diff.Flushed.Load())
	}
}
