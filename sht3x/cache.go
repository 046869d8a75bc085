// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

// cache holds the last reading for two consumers that poll temperature and
// humidity separately. Each half is valid until consumed once.
type cache struct {
	temp, hum           int16
	tempValid, humValid bool
}

func (c *cache) invalidate() {
	c.tempValid = false
	c.humValid = false
}

// Temperature returns the temperature in hundredths of a degree Celsius.
//
// Temperature and Humidity share one reading: whichever is called first
// fetches from the sensor and the other consumes the cached half. A half that
// was already consumed triggers a new fetch.
func (dev *Dev) Temperature() (int16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if !dev.cache.tempValid {
		if err := dev.refresh(); err != nil {
			return 0, err
		}
	}
	dev.cache.tempValid = false
	return dev.cache.temp, nil
}

// Humidity returns the relative humidity in hundredths of a percent. See
// Temperature.
func (dev *Dev) Humidity() (int16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if !dev.cache.humValid {
		if err := dev.refresh(); err != nil {
			return 0, err
		}
	}
	dev.cache.humValid = false
	return dev.cache.hum, nil
}

func (dev *Dev) refresh() error {
	f, err := dev.fetch()
	if err != nil {
		return err
	}
	dev.cache = cache{
		temp:      f.Temperature(),
		hum:       f.Humidity(),
		tempValid: true,
		humValid:  true,
	}
	return nil
}
