// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		// Sensirion datasheet reference vector.
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
		// Status register read back as zero after a reset.
		{bytes: []byte{0x00, 0x00}, result: 0x81},
		{bytes: []byte{}, result: 0xff},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

func TestCRC8Deterministic(t *testing.T) {
	b := []byte{0x66, 0x66}
	first := CRC8(b)
	for range 10 {
		if got := CRC8(b); got != first {
			t.Fatalf("CRC8 not deterministic: 0x%x != 0x%x", got, first)
		}
	}
	if b[0] != 0x66 || b[1] != 0x66 {
		t.Error("CRC8 modified its input")
	}
}

func TestCheckWord(t *testing.T) {
	if !CheckWord([]byte{0xbe, 0xef, 0x92}) {
		t.Error("CheckWord rejected a valid word")
	}
	if CheckWord([]byte{0xbe, 0xef, 0x93}) {
		t.Error("CheckWord accepted an invalid crc")
	}
	if !CheckWord([]byte{0x00, 0x00, 0x81, 0xff}) {
		t.Error("CheckWord must only look at the first 3 bytes")
	}
}
