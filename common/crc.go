// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the CRC8 calculation used by Sensirion sensors and the bus lock
// shared by drivers on one I²C bus.
package common

const (
	crc8Polynomial byte = 0x31
	crc8Init       byte = 0xff
)

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. Polynomial x⁸+x⁵+x⁴+1 (0x31), initialization 0xff, MSB
// first, no final XOR. This is the checksum appended to every 16-bit word by
// Sensirion sensors.
func CRC8(bytes []byte) byte {
	crc := crc8Init
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ crc8Polynomial
			}
		}
	}
	return crc
}

// CheckWord reports whether b[2] is the CRC8 of the big-endian word in b[:2].
// b must hold at least 3 bytes.
func CheckWord(b []byte) bool {
	return CRC8(b[:2]) == b[2]
}
