// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// busLocks maps a bus name to the *sync.Mutex guarding it.
var busLocks sync.Map

// LockBus acquires exclusive access to bus and returns the function that
// releases it. Every driver sharing a physical bus gets the same lock, so a
// caller holds the bus for one transaction only:
//
//	defer common.LockBus(bus)()
//
// Buses are identified by their String() name, as registered in i2creg. Two
// handles returned by separate i2creg.Open calls on the same bus share one
// lock, and the Bus implementation itself need not be comparable. Distinct
// buses must report distinct names.
//
// The lock is not reentrant.
func LockBus(bus i2c.Bus) (unlock func()) {
	v, _ := busLocks.LoadOrStore(bus.String(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
