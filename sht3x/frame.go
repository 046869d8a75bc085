// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import (
	"fmt"

	"github.com/GermanBionicSystems/tracker/common"
	"periph.io/x/conn/v3/physic"
)

// Frame is one raw reading as sent by the sensor: the temperature word, its
// CRC, the humidity word and its CRC.
type Frame [6]byte

// check verifies both CRC bytes of the frame.
func (f *Frame) check() error {
	if !common.CheckWord(f[0:3]) {
		return fmt.Errorf("sht3x: temperature word %02x%02x crc 0x%02x: %w", f[0], f[1], f[2], ErrChecksum)
	}
	if !common.CheckWord(f[3:6]) {
		return fmt.Errorf("sht3x: humidity word %02x%02x crc 0x%02x: %w", f[3], f[4], f[5], ErrChecksum)
	}
	return nil
}

// RawTemperature returns the temperature word S_T.
func (f *Frame) RawTemperature() uint16 {
	return uint16(f[0])<<8 | uint16(f[1])
}

// RawHumidity returns the humidity word S_RH.
func (f *Frame) RawHumidity() uint16 {
	return uint16(f[3])<<8 | uint16(f[4])
}

// Temperature returns the temperature in hundredths of a degree Celsius.
func (f *Frame) Temperature() int16 {
	return rawToTemperature(f.RawTemperature())
}

// Humidity returns the relative humidity in hundredths of a percent.
func (f *Frame) Humidity() int16 {
	return rawToHumidity(f.RawHumidity())
}

// Env returns the reading as a physic.Env. Pressure is not measured.
func (f *Frame) Env() physic.Env {
	return physic.Env{
		Temperature: centiCelsius(f.Temperature()),
		Humidity:    centiPercent(f.Humidity()),
	}
}

// T = -45 + 175 * S_T / 65535, scaled to hundredths. The shift by 16 instead
// of dividing by 65535 loses less than the sensor's resolution.
func rawToTemperature(raw uint16) int16 {
	return int16(int32((uint32(raw)*17500)>>16) - 4500)
}

// RH = 100 * S_RH / 65535, scaled to hundredths.
func rawToHumidity(raw uint16) int16 {
	return int16((uint32(raw) * 10000) >> 16)
}

// temperatureToRaw is the inverse of rawToTemperature, clamped to the sensor
// range.
func temperatureToRaw(centi int16) uint16 {
	v := (int64(centi) + 4500) * 65535 / 17500
	return clampRaw(v)
}

// humidityToRaw is the inverse of rawToHumidity, clamped to the sensor range.
func humidityToRaw(centi int16) uint16 {
	v := int64(centi) * 65535 / 10000
	return clampRaw(v)
}

func clampRaw(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

func centiCelsius(t int16) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(t)*10*physic.MilliKelvin
}

func centiPercent(h int16) physic.RelativeHumidity {
	return physic.RelativeHumidity(h) * (physic.PercentRH / 100)
}
