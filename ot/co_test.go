//
// co_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"errors"
	"testing"
)

func TestCOInvalidPoint(t *testing.T) {
	pipe, rPipe := NewPipe()

	done := make(chan error)
	go func() {
		receiver := NewCO(rand.Reader)
		if err := receiver.InitReceiver(rPipe); err != nil {
			done <- err
			return
		}
		labels := make([]Label, 1)
		done <- receiver.Receive([]bool{true}, labels)
		rPipe.Close()
	}()

	if err := SendString(pipe, coGroup); err != nil {
		t.Fatal(err)
	}
	// The identity element is a low order point.
	identity := make([]byte, pointSize)
	identity[0] = 1
	if err := pipe.SendData(identity); err != nil {
		t.Fatal(err)
	}

	err := <-done
	if !errors.Is(err, ErrInvalidPoint) {
		t.Fatalf("expected ErrInvalidPoint, got %v", err)
	}
}

func TestCOInvalidGroup(t *testing.T) {
	pipe, rPipe := NewPipe()

	done := make(chan error)
	go func() {
		done <- NewCO(rand.Reader).InitReceiver(rPipe)
	}()
	if err := SendString(pipe, "P-256"); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err == nil {
		t.Fatal("InitReceiver accepted an invalid group")
	}
}
