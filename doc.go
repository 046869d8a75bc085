// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tracker is a container for the tracker's sensor drivers.
//
// sht3x drives the Sensirion SHT3x temperature and humidity sensor. common
// holds the checksum and bus locking shared by drivers. screen1d and
// cmd/sht3x are a terminal front end to try a sensor from a host.
package tracker
