// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import (
	"fmt"
	"strings"
)

// Status is the sensor's status register.
type Status uint16

const (
	// At least one alert is pending. Mirrored on the ALERT pin.
	StatusAlertPending     Status = 1 << 15
	StatusHeaterOn         Status = 1 << 13
	StatusHumidityAlert    Status = 1 << 11
	StatusTemperatureAlert Status = 1 << 10
	// Set by a power-on, soft or hard reset. Cleared by ClearStatus.
	StatusResetDetected Status = 1 << 4
	// The last command was not processed.
	StatusCommandFailed Status = 1 << 1
	// The checksum of the last write transfer failed.
	StatusWriteChecksumFailed Status = 1 << 0
)

var statusNames = []struct {
	flag Status
	name string
}{
	{StatusAlertPending, "AlertPending"},
	{StatusHeaterOn, "HeaterOn"},
	{StatusHumidityAlert, "HumidityAlert"},
	{StatusTemperatureAlert, "TemperatureAlert"},
	{StatusResetDetected, "ResetDetected"},
	{StatusCommandFailed, "CommandFailed"},
	{StatusWriteChecksumFailed, "WriteChecksumFailed"},
}

func (s Status) String() string {
	if s == 0 {
		return "0"
	}
	var names []string
	rest := s
	for _, n := range statusNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%04x", uint16(rest)))
	}
	return strings.Join(names, "|")
}
