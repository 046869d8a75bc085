// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen1d renders a history of temperature readings as a single line
// of colored blocks on the terminal (stdout) using ANSI color codes.
//
// The oldest reading is on the left. Cold readings are blue, hot ones red.
package screen1d

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this display.
type Opts struct {
	// Number of readings shown.
	X int
	// Temperature range mapped onto the gradient, in hundredths of a degree
	// Celsius. Readings outside of it use the end colors.
	Min, Max int16
	Palette  *ansi256.Palette

	_ struct{}
}

// DefaultOpts shows 40 readings between 0°C and 40°C.
var DefaultOpts = Opts{X: 40, Min: 0, Max: 4000}

// Dev is a temperature strip that outputs to the console.
type Dev struct {
	w        io.Writer
	l        int
	min, max int16
	palette  ansi256.Palette

	readings []int16
	buf      bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	return newDev(colorable.NewColorableStdout(), opts)
}

func newDev(w io.Writer, opts *Opts) (*Dev, error) {
	if opts.X <= 0 {
		return nil, fmt.Errorf("screen1d: invalid width %d", opts.X)
	}
	if opts.Min >= opts.Max {
		return nil, errors.New("screen1d: Min must be lower than Max")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:        w,
		l:        opts.X,
		min:      opts.Min,
		max:      opts.Max,
		palette:  *p,
		readings: make([]int16, 0, opts.X),
	}, nil
}

func (d *Dev) String() string {
	return "Screen1D"
}

// Halt implements conn.Resource.
//
// It resets the colors and ends the line so the terminal is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Push appends a temperature in hundredths of a degree Celsius and redraws the
// strip. Once the strip is full the oldest reading scrolls out.
func (d *Dev) Push(centi int16) error {
	if len(d.readings) == d.l {
		copy(d.readings, d.readings[1:])
		d.readings = d.readings[:d.l-1]
	}
	d.readings = append(d.readings, centi)
	return d.refresh()
}

// Color returns the color a reading is drawn with.
func (d *Dev) Color(centi int16) color.NRGBA {
	if centi < d.min {
		centi = d.min
	}
	if centi > d.max {
		centi = d.max
	}
	v := byte((int32(centi) - int32(d.min)) * 255 / (int32(d.max) - int32(d.min)))
	return color.NRGBA{R: v, G: 0, B: 255 - v, A: 255}
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for _, r := range d.readings {
		_, _ = io.WriteString(&d.buf, d.palette.Block(d.Color(r)))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fmt.Stringer = &Dev{}
