//
// label_test.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"testing"
)

func TestLabel(t *testing.T) {
	label := &Label{
		D0: 0xffffffffffffffff,
		D1: 0xffffffffffffffff,
	}

	label.SetS(true)
	if label.D0 != 0xffffffffffffffff {
		t.Fatal("Failed to set S-bit")
	}

	label.SetS(false)
	if label.D0 != 0x7fffffffffffffff {
		t.Fatalf("Failed to clear S-bit: %x", label.D0)
	}
}

func TestLabelBits(t *testing.T) {
	var label Label

	for i := 0; i < 128; i += 3 {
		label.SetBit(i, 1)
	}
	for i := 0; i < 128; i++ {
		var expected uint
		if i%3 == 0 {
			expected = 1
		}
		if label.Bit(i) != expected {
			t.Fatalf("Bit(%d)=%d, expected %d", i, label.Bit(i), expected)
		}
		if label.Block().Bit(i) != expected {
			t.Fatalf("Block().Bit(%d) mismatch", i)
		}
	}
	label.SetBit(0, 0)
	label.SetBit(126, 0)
	if label.Bit(0) != 0 || label.Bit(126) != 0 || label.Bit(3) != 1 {
		t.Fatalf("SetBit failed: %v", label)
	}

	var back Label
	back.SetBlock(label.Block())
	if !back.Equal(label) {
		t.Fatalf("SetBlock(Block()) != label")
	}

	mask := Label{D0: 0xff}
	label.And(mask)
	if label.D1 != 0 || label.D0 != 0x48 {
		t.Fatalf("And failed: %v", label)
	}
}

func TestLabelData(t *testing.T) {
	l := Label{D0: 0x0123456789abcdef, D1: 0xfedcba9876543210}

	var ld LabelData
	data := l.Bytes(&ld)
	if data[0] != 0x01 || data[15] != 0x10 {
		t.Fatalf("Bytes: %x", data)
	}
	var l2 Label
	l2.SetBytes(data)
	if !l2.Equal(l) {
		t.Fatalf("SetBytes: %v != %v", l2, l)
	}
}
