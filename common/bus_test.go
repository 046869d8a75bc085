// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// namedBus is not comparable: its slice field makes it unusable as a map key.
type namedBus struct {
	name string
	ops  []i2ctest.IO
}

func (b namedBus) String() string                    { return b.name }
func (b namedBus) Tx(addr uint16, w, r []byte) error { return nil }
func (b namedBus) SetSpeed(f physic.Frequency) error { return nil }

func TestLockBusSerializes(t *testing.T) {
	bus := &i2ctest.Playback{}
	var holders, maxHolders atomic.Int32
	wg := sync.WaitGroup{}
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := LockBus(bus)
			n := holders.Add(1)
			for {
				m := maxHolders.Load()
				if n <= m || maxHolders.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	if got := maxHolders.Load(); got != 1 {
		t.Errorf("bus held by %d callers at once, expected 1", got)
	}
}

func TestLockBusIndependentBuses(t *testing.T) {
	a := namedBus{name: "I2C-independent-a"}
	b := namedBus{name: "I2C-independent-b"}
	unlockA := LockBus(a)
	defer unlockA()
	done := make(chan struct{})
	go func() {
		LockBus(b)()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("locking one bus blocked another bus")
	}
}

func TestLockBusSharedByName(t *testing.T) {
	// Two handles on the same bus, as returned by two i2creg.Open calls.
	a := namedBus{name: "I2C-shared"}
	b := namedBus{name: "I2C-shared"}
	unlockA := LockBus(a)
	done := make(chan struct{})
	go func() {
		LockBus(b)()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("second handle on the same bus acquired the lock while it was held")
	case <-time.After(50 * time.Millisecond):
	}
	unlockA()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over to the second handle")
	}
}
