// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import (
	"fmt"
	"time"
)

// Mode selects single-shot or periodic acquisition.
type Mode int

const (
	// SingleShot starts one conversion per reading. The sensor returns to
	// idle afterwards.
	SingleShot Mode = iota
	// Periodic modes. The sensor converts continuously at the given rate.
	// The datasheet recommends 1Hz or less to avoid self-heating.
	PeriodicHalfHertz
	PeriodicHertz
	PeriodicTwoHertz
	PeriodicFourHertz
	Periodic10Hertz

	modeCount
)

// Repeatability selects the sensor's internal averaging. Higher repeatability
// means less noise and a longer conversion.
type Repeatability int

const (
	RepeatabilityHigh Repeatability = iota
	RepeatabilityMedium
	RepeatabilityLow

	repeatabilityCount
)

type command uint16

const (
	cmdStatus      command = 0xf32d
	cmdClearStatus command = 0x3041
	cmdSoftReset   command = 0x30a2
	cmdFetch       command = 0xe000
	cmdBreak       command = 0x3093
	cmdHeaterOn    command = 0x306d
	cmdHeaterOff   command = 0x3066
)

// Measurement start commands, without clock stretching.
var measureCommands = [modeCount][repeatabilityCount]command{
	SingleShot:        {0x2400, 0x240b, 0x2416},
	PeriodicHalfHertz: {0x2032, 0x2024, 0x202f},
	PeriodicHertz:     {0x2130, 0x2126, 0x212d},
	PeriodicTwoHertz:  {0x2236, 0x2220, 0x222b},
	PeriodicFourHertz: {0x2334, 0x2322, 0x2329},
	Periodic10Hertz:   {0x2737, 0x2721, 0x272a},
}

// Maximum conversion time for each repeatability.
var conversionTimes = [repeatabilityCount]time.Duration{
	RepeatabilityHigh:   16 * time.Millisecond,
	RepeatabilityMedium: 7 * time.Millisecond,
	RepeatabilityLow:    5 * time.Millisecond,
}

// Time between two measurements in periodic modes.
var measurePeriods = [modeCount]time.Duration{
	SingleShot:        0,
	PeriodicHalfHertz: 2 * time.Second,
	PeriodicHertz:     time.Second,
	PeriodicTwoHertz:  500 * time.Millisecond,
	PeriodicFourHertz: 250 * time.Millisecond,
	Periodic10Hertz:   100 * time.Millisecond,
}

func (m Mode) valid() bool {
	return m >= SingleShot && m < modeCount
}

// Periodic reports whether the sensor free-runs in this mode.
func (m Mode) Periodic() bool {
	return m != SingleShot
}

// Period returns the time between two measurements. It is zero for
// SingleShot.
func (m Mode) Period() time.Duration {
	if !m.valid() {
		return 0
	}
	return measurePeriods[m]
}

func (m Mode) String() string {
	switch m {
	case SingleShot:
		return "single-shot"
	case PeriodicHalfHertz:
		return "periodic 0.5Hz"
	case PeriodicHertz:
		return "periodic 1Hz"
	case PeriodicTwoHertz:
		return "periodic 2Hz"
	case PeriodicFourHertz:
		return "periodic 4Hz"
	case Periodic10Hertz:
		return "periodic 10Hz"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (r Repeatability) valid() bool {
	return r >= RepeatabilityHigh && r < repeatabilityCount
}

// ConversionTime returns the maximum time the sensor needs to produce a
// reading after a measurement command.
func (r Repeatability) ConversionTime() time.Duration {
	if !r.valid() {
		return 0
	}
	return conversionTimes[r]
}

func (r Repeatability) String() string {
	switch r {
	case RepeatabilityHigh:
		return "high"
	case RepeatabilityMedium:
		return "medium"
	case RepeatabilityLow:
		return "low"
	default:
		return fmt.Sprintf("Repeatability(%d)", int(r))
	}
}

func (c command) String() string {
	return fmt.Sprintf("0x%04x", uint16(c))
}

// bytes returns the command big-endian, as sent on the wire.
func (c command) bytes() []byte {
	return []byte{byte(c >> 8), byte(c)}
}
