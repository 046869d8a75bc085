// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import "errors"

// Errors returned by the driver are wrapped around one of these. Use
// errors.Is to tell them apart.
var (
	// ErrBus is returned when the device is unreachable or did not
	// acknowledge a transaction.
	ErrBus = errors.New("sht3x: bus error")
	// ErrChecksum is returned when a word read from the device does not
	// match its CRC.
	ErrChecksum = errors.New("sht3x: invalid crc")
	// ErrResetFailed is returned when the sensor did not come back in a
	// clean state after a soft reset.
	ErrResetFailed = errors.New("sht3x: reset failed")
	// ErrMeasureCommandRejected is returned when the sensor flagged the
	// periodic measurement command as not executed.
	ErrMeasureCommandRejected = errors.New("sht3x: measurement command rejected")
	// ErrInvalidArgument is returned for out of range parameters.
	ErrInvalidArgument = errors.New("sht3x: invalid argument")
)
