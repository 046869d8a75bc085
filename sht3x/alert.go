// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import (
	"fmt"

	"github.com/GermanBionicSystems/tracker/common"
)

// Limit selects one of the four alert limits. The datasheet requires
// HighSet > HighClear > LowClear > LowSet.
type Limit int

const (
	// Crossing above raises the alert.
	LimitHighSet Limit = iota
	// Falling below clears a high alert.
	LimitHighClear
	// Rising above clears a low alert.
	LimitLowClear
	// Falling below raises the alert.
	LimitLowSet

	limitCount
)

var alertReadCommands = [limitCount]command{
	LimitHighSet:   0xe11f,
	LimitHighClear: 0xe114,
	LimitLowClear:  0xe109,
	LimitLowSet:    0xe102,
}

var alertWriteCommands = [limitCount]command{
	LimitHighSet:   0x611d,
	LimitHighClear: 0x6116,
	LimitLowClear:  0x610b,
	LimitLowSet:    0x6100,
}

func (l Limit) String() string {
	switch l {
	case LimitHighSet:
		return "high set"
	case LimitHighClear:
		return "high clear"
	case LimitLowClear:
		return "low clear"
	case LimitLowSet:
		return "low set"
	default:
		return fmt.Sprintf("Limit(%d)", int(l))
	}
}

// Threshold is a temperature/humidity pair defining one alert limit.
//
// The sensor only stores the 9 most significant bits of the temperature word
// and the 7 most significant bits of the humidity word, so a threshold read
// back is within about 0.35°C and 0.8%RH of the one written.
type Threshold struct {
	// Hundredths of a degree Celsius.
	Temperature int16
	// Hundredths of a percent.
	Humidity int16
}

func (t Threshold) String() string {
	return fmt.Sprintf("{%s, %s}", centiCelsius(t.Temperature), centiPercent(t.Humidity))
}

// encode packs the threshold into the sensor's limit word: humidity bits 15..9
// followed by temperature bits 15..7.
func (t Threshold) encode() uint16 {
	return humidityToRaw(t.Humidity)&0xfe00 | temperatureToRaw(t.Temperature)>>7
}

func decodeThreshold(w uint16) Threshold {
	return Threshold{
		Temperature: rawToTemperature(w << 7),
		Humidity:    rawToHumidity(w & 0xfe00),
	}
}

// AlertLimit reads one of the alert limits from the sensor.
func (dev *Dev) AlertLimit(l Limit) (Threshold, error) {
	if l < LimitHighSet || l >= limitCount {
		return Threshold{}, fmt.Errorf("sht3x: %s: %w", l, ErrInvalidArgument)
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.sendCommand(alertReadCommands[l]); err != nil {
		return Threshold{}, err
	}
	r := make([]byte, 3)
	if err := dev.readBytes(r); err != nil {
		return Threshold{}, err
	}
	if !common.CheckWord(r) {
		return Threshold{}, fmt.Errorf("sht3x: %s limit word %02x%02x crc 0x%02x: %w", l, r[0], r[1], r[2], ErrChecksum)
	}
	return decodeThreshold(uint16(r[0])<<8 | uint16(r[1])), nil
}

// SetAlertLimit writes one of the alert limits to the sensor and verifies
// that the sensor accepted the transfer's checksum.
func (dev *Dev) SetAlertLimit(l Limit, t Threshold) error {
	if l < LimitHighSet || l >= limitCount {
		return fmt.Errorf("sht3x: %s: %w", l, ErrInvalidArgument)
	}
	w := t.encode()
	crc := common.CRC8([]byte{byte(w >> 8), byte(w)})
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.sendCommandWithPayload(alertWriteCommands[l], w, crc); err != nil {
		return err
	}
	s, err := dev.status()
	if err != nil {
		return err
	}
	if s&StatusWriteChecksumFailed != 0 {
		return fmt.Errorf("sht3x: %s limit rejected by sensor: %w", l, ErrChecksum)
	}
	dev.log.WithField("limit", l).WithField("threshold", t).Debug("sht3x: alert limit set")
	return nil
}
