// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sht3x reads temperature and humidity from a SHT3x sensor and shows the
// temperature history as a colored strip.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/GermanBionicSystems/tracker/screen1d"
	"github.com/GermanBionicSystems/tracker/sht3x"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// parseMode accepts "single" or a periodic rate like "2Hz".
func parseMode(s string) (sht3x.Mode, error) {
	if s == "single" {
		return sht3x.SingleShot, nil
	}
	for m := sht3x.PeriodicHalfHertz; m <= sht3x.Periodic10Hertz; m++ {
		if strings.EqualFold(strings.TrimPrefix(m.String(), "periodic "), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func parseRepeatability(s string) (sht3x.Repeatability, error) {
	for r := sht3x.RepeatabilityHigh; r <= sht3x.RepeatabilityLow; r++ {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown repeatability %q", s)
}

func mainImpl() error {
	busName := flag.String("b", "", "I²C bus to use")
	addr := flag.Uint("a", uint(sht3x.DefaultAddress), "I²C address of the sensor")
	modeName := flag.String("m", "1Hz", "acquisition mode: single, 0.5Hz, 1Hz, 2Hz, 4Hz or 10Hz")
	repName := flag.String("r", "high", "repeatability: high, medium or low")
	count := flag.Int("n", 0, "number of readings, 0 to read until interrupted")
	interval := flag.Duration("i", time.Second, "time between readings")
	width := flag.Int("w", screen1d.DefaultOpts.X, "number of readings shown in the strip")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	mode, err := parseMode(*modeName)
	if err != nil {
		return err
	}
	rep, err := parseRepeatability(*repName)
	if err != nil {
		return err
	}
	if *addr > 0x7f {
		return fmt.Errorf("invalid address %#x", *addr)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := sht3x.New(bus, &sht3x.Opts{Addr: uint16(*addr), Mode: mode, Repeatability: rep, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Halt(); err != nil {
			log.WithError(err).Warn("halt")
		}
	}()
	log.WithField("dev", dev).Info("opened")

	opts := screen1d.DefaultOpts
	opts.X = *width
	strip, err := screen1d.New(&opts)
	if err != nil {
		return err
	}
	defer strip.Halt()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for i := 0; *count == 0 || i < *count; i++ {
		temp, err := dev.Temperature()
		if err != nil {
			log.WithError(err).Error("temperature")
		} else {
			hum, err := dev.Humidity()
			if err != nil {
				log.WithError(err).Error("humidity")
			} else {
				log.WithFields(logrus.Fields{
					"temperature": fmt.Sprintf("%.2f°C", float64(temp)/100),
					"humidity":    fmt.Sprintf("%.2f%%RH", float64(hum)/100),
				}).Info("reading")
			}
			if err := strip.Push(temp); err != nil {
				return err
			}
		}
		select {
		case <-interrupt:
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "sht3x: %s.\n", err)
		os.Exit(1)
	}
}
