// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sht3x controls a Sensirion SHT30, SHT31 or SHT35 temperature and
// humidity sensor over I²C.
//
// The driver runs the sensor either in single-shot mode, where every reading
// starts one conversion, or in one of the periodic modes, where the sensor
// free-runs at a fixed rate and each reading fetches the latest result. The
// driver tracks when the current conversion started and never queries the
// sensor before the result is guaranteed to be ready. Every word read from the
// device is CRC checked.
//
// Readings are returned as integers: hundredths of a degree Celsius and
// hundredths of a percent of relative humidity. Dev also implements
// physic.SenseEnv.
//
// # Datasheet
//
// https://sensirion.com/media/documents/213E6A3B/63A5A569/Datasheet_SHT3x_DIS.pdf
//
// # Accuracy
//
//	SHT30: ±0.2 °C, ±2 %RH
//	SHT31: ±0.2 °C, ±2 %RH
//	SHT35: ±0.1 °C, ±1.5 %RH
//
// # Alert Mode
//
// In periodic modes the sensor compares every reading against four
// programmable limits and drives its ALERT pin. See Dev.SetAlertLimit.
package sht3x
