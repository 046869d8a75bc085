// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht3x

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/GermanBionicSystems/tracker/common"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the address with the ADDR pin pulled low.
	DefaultAddress uint16 = 0x44
	// AlternateAddress is the address with the ADDR pin pulled high.
	AlternateAddress uint16 = 0x45

	// Delays of the reset and start sequences.
	resetIdleDelay   = 3 * time.Millisecond
	resetRebootDelay = 2 * time.Millisecond
	clearStatusDelay = 500 * time.Microsecond
	// The sensor needs up to 250µs to accept a periodic measurement command.
	startAcceptDelay = time.Millisecond
	// Time to return to idle after a break command.
	breakDelay = time.Millisecond

	statusMask Status = 0xbc13
)

// Opts holds the configuration of a sensor. None of it can be changed once the
// device is opened.
type Opts struct {
	// I²C address, DefaultAddress or AlternateAddress.
	Addr          uint16
	Mode          Mode
	Repeatability Repeatability
	// Logger receives debug traces of the protocol. If nil, nothing is
	// logged.
	Logger logrus.FieldLogger
}

// DefaultOpts is a low power configuration: one low repeatability
// measurement every other second.
var DefaultOpts = Opts{
	Addr:          DefaultAddress,
	Mode:          PeriodicHalfHertz,
	Repeatability: RepeatabilityLow,
}

// clock is the monotonic time source used for the conversion wait and the
// SenseContinuous period.
type clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	// NewTicker returns a channel ticking every d and the function stopping
	// it.
	NewTicker(d time.Duration) (<-chan time.Time, func())
}

type sysClock struct{}

func (sysClock) Now() time.Time        { return time.Now() }
func (sysClock) Sleep(d time.Duration) { time.Sleep(d) }

func (sysClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Dev represents a SHT3x sensor.
type Dev struct {
	d      *i2c.Dev
	mode   Mode
	repeat Repeatability
	clk    clock
	log    logrus.FieldLogger

	mu sync.Mutex
	// True between an acknowledged start command and the fetch that
	// consumes a single-shot result. Stays true in periodic modes.
	measuring     bool
	cycleStart    time.Time
	cycleDuration time.Duration
	cache         cache
	shutdown      chan struct{}
}

// New opens a SHT3x sensor on bus. It resets the sensor and, in periodic
// modes, starts the acquisition. If opts is nil, DefaultOpts is used.
//
// A sensor that fails to initialize should not be used.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	return newDev(bus, opts, sysClock{})
}

func newDev(bus i2c.Bus, opts *Opts, clk clock) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if !opts.Mode.valid() {
		return nil, fmt.Errorf("sht3x: mode %s: %w", opts.Mode, ErrInvalidArgument)
	}
	if !opts.Repeatability.valid() {
		return nil, fmt.Errorf("sht3x: repeatability %s: %w", opts.Repeatability, ErrInvalidArgument)
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	dev := &Dev{
		d:      &i2c.Dev{Bus: bus, Addr: opts.Addr},
		mode:   opts.Mode,
		repeat: opts.Repeatability,
		clk:    clk,
		log:    logger.WithField("addr", fmt.Sprintf("%#02x", opts.Addr)),
	}
	if err := dev.reset(); err != nil {
		return nil, err
	}
	if dev.mode.Periodic() {
		if err := dev.start(); err != nil {
			return nil, err
		}
	}
	dev.log.WithFields(logrus.Fields{"mode": dev.mode, "repeatability": dev.repeat}).Debug("sht3x: initialized")
	return dev, nil
}

// Read fetches a reading and stores the temperature in hundredths of a degree
// Celsius into temp and the relative humidity in hundredths of a percent into
// hum. Either pointer may be nil, but not both.
//
// Read blocks until the current conversion is guaranteed to be complete: up
// to the conversion time in single-shot mode and up to the mode's period in
// periodic modes. It never retries. After an ErrChecksum Read can simply be
// called again: periodic modes fetch the next result, single-shot mode starts
// a new measurement.
func (dev *Dev) Read(temp, hum *int16) error {
	if temp == nil && hum == nil {
		return fmt.Errorf("sht3x: no output requested: %w", ErrInvalidArgument)
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	f, err := dev.fetch()
	if err != nil {
		return err
	}
	if temp != nil {
		*temp = f.Temperature()
	}
	if hum != nil {
		*hum = f.Humidity()
	}
	return nil
}

// ReadFrame fetches a reading and returns it unconverted. The frame's CRCs are
// already verified.
func (dev *Dev) ReadFrame() (Frame, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.fetch()
}

// Reset brings the sensor back to idle with a soft reset and verifies that
// its status register is clear. In periodic modes the acquisition is
// restarted by the next Read.
func (dev *Dev) Reset() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.reset()
}

// Status returns the sensor's status register. Refer to the Status
// constants.
func (dev *Dev) Status() (Status, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.status()
}

// ClearStatus clears the alert and reset flags of the status register.
func (dev *Dev) ClearStatus() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.sendCommand(cmdClearStatus)
}

// SetHeater switches the sensor's internal heater on or off. The heater is
// meant for plausibility checks and to evaporate condensation. Readings taken
// while it is on are offset.
func (dev *Dev) SetHeater(on bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	cmd := cmdHeaterOff
	if on {
		cmd = cmdHeaterOn
	}
	return dev.sendCommand(cmd)
}

// Mode returns the acquisition mode.
func (dev *Dev) Mode() Mode {
	return dev.mode
}

// Repeatability returns the configured repeatability.
func (dev *Dev) Repeatability() Repeatability {
	return dev.repeat
}

// Sense reads temperature and humidity from the device. Implements
// physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.sense(env)
}

// SenseContinuous reads from the device every interval and sends the result
// to the returned channel. Failed readings are skipped. Call Halt to stop.
//
// interval must be at least the mode's period, or the conversion time in
// single-shot mode.
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		return nil, errors.New("sht3x: SenseContinuous already running")
	}
	if floor := dev.minInterval(); interval < floor {
		return nil, fmt.Errorf("sht3x: sample interval %s is < device sample period %s: %w", interval, floor, ErrInvalidArgument)
	}
	dev.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	tick, stop := dev.clk.NewTicker(interval)
	go func(shutdown chan struct{}) {
		defer stop()
		defer close(ch)
		for {
			select {
			case <-shutdown:
				return
			case <-tick:
				env := physic.Env{}
				dev.mu.Lock()
				if dev.shutdown != shutdown {
					// Halted while waiting for the lock.
					dev.mu.Unlock()
					return
				}
				err := dev.sense(&env)
				dev.mu.Unlock()
				if err != nil {
					dev.log.WithError(err).Debug("sht3x: continuous sense")
					continue
				}
				select {
				case ch <- env:
				case <-shutdown:
					return
				}
			}
		}
	}(dev.shutdown)
	return ch, nil
}

// Precision returns the resolution of the readings. Implements
// physic.SenseEnv.
func (dev *Dev) Precision(env *physic.Env) {
	env.Temperature = 10 * physic.MilliKelvin
	env.Humidity = physic.PercentRH / 100
	env.Pressure = 0
}

// Halt stops a running SenseContinuous and, in periodic modes, stops the
// acquisition. In single-shot mode a pending result is discarded. The next
// Read starts a new measurement. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	dev.cache.invalidate()
	if !dev.mode.Periodic() {
		// A pending conversion is let to complete so that the sensor
		// acknowledges the next command.
		if dev.measuring {
			if wait := dev.cycleDuration - dev.clk.Now().Sub(dev.cycleStart); wait > 0 {
				dev.clk.Sleep(wait)
			}
			dev.measuring = false
		}
		return nil
	}
	if !dev.measuring {
		return nil
	}
	if err := dev.sendCommand(cmdBreak); err != nil {
		return err
	}
	dev.clk.Sleep(breakDelay)
	dev.measuring = false
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("sht3x{%s, %s, %s repeatability}", dev.d, dev.mode, dev.repeat)
}

func (dev *Dev) sense(env *physic.Env) error {
	env.Pressure = 0
	f, err := dev.fetch()
	if err != nil {
		return err
	}
	e := f.Env()
	env.Temperature = e.Temperature
	env.Humidity = e.Humidity
	return nil
}

func (dev *Dev) minInterval() time.Duration {
	if dev.mode.Periodic() {
		return dev.mode.Period()
	}
	return dev.repeat.ConversionTime()
}

// reset forces the sensor to idle, soft resets it and checks that it comes
// back with a clear status.
func (dev *Dev) reset() error {
	// A soft reset is only accepted while idle. A single-shot measurement
	// gets the sensor out of a periodic acquisition; once it completes the
	// sensor is idle. The result is not checked.
	_ = dev.sendCommand(measureCommands[SingleShot][RepeatabilityLow])
	dev.clk.Sleep(resetIdleDelay)
	if err := dev.sendCommand(cmdSoftReset); err != nil {
		return fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	dev.clk.Sleep(resetRebootDelay)
	if err := dev.sendCommand(cmdClearStatus); err != nil {
		return fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	dev.clk.Sleep(clearStatusDelay)
	s, err := dev.status()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	if s != 0 {
		return fmt.Errorf("%w: status %s after reset", ErrResetFailed, s)
	}
	dev.measuring = false
	dev.cache.invalidate()
	dev.log.Debug("sht3x: reset")
	return nil
}

// start sends the measurement command for the configured mode and
// repeatability. On failure the state is left untouched.
func (dev *Dev) start() error {
	if err := dev.sendCommand(measureCommands[dev.mode][dev.repeat]); err != nil {
		return err
	}
	if dev.mode.Periodic() {
		dev.clk.Sleep(startAcceptDelay)
		s, err := dev.status()
		if err != nil {
			return err
		}
		if s&StatusCommandFailed != 0 {
			return fmt.Errorf("sht3x: %s %s repeatability: %w", dev.mode, dev.repeat, ErrMeasureCommandRejected)
		}
	}
	dev.cycleStart = dev.clk.Now()
	dev.cycleDuration = dev.repeat.ConversionTime()
	dev.measuring = true
	return nil
}

// fetch waits for the current conversion and reads its result, starting a
// measurement first if none is running.
func (dev *Dev) fetch() (Frame, error) {
	var f Frame
	if !dev.measuring {
		if err := dev.start(); err != nil {
			return f, err
		}
	}
	if wait := dev.cycleDuration - dev.clk.Now().Sub(dev.cycleStart); wait > 0 {
		dev.clk.Sleep(wait)
	}
	if dev.mode.Periodic() {
		if err := dev.sendCommand(cmdFetch); err != nil {
			return f, err
		}
	}
	if err := dev.readBytes(f[:]); err != nil {
		return f, err
	}
	// A single-shot result can be read once; the sensor is idle again
	// whether or not the frame is intact.
	if !dev.mode.Periodic() {
		dev.measuring = false
	}
	if err := f.check(); err != nil {
		dev.log.WithError(err).Debug("sht3x: fetch")
		return f, err
	}
	if dev.mode.Periodic() {
		dev.cycleStart = dev.clk.Now()
		dev.cycleDuration = dev.mode.Period()
	}
	return f, nil
}

// status reads the status register and masks the defined flags.
func (dev *Dev) status() (Status, error) {
	if err := dev.sendCommand(cmdStatus); err != nil {
		return 0, err
	}
	r := make([]byte, 3)
	if err := dev.readBytes(r); err != nil {
		return 0, err
	}
	if !common.CheckWord(r) {
		return 0, fmt.Errorf("sht3x: status word %02x%02x crc 0x%02x: %w", r[0], r[1], r[2], ErrChecksum)
	}
	s := (Status(r[0])<<8 | Status(r[1])) & statusMask
	dev.log.WithField("status", s).Debug("sht3x: status")
	return s, nil
}

// sendCommand writes a 16-bit command in one transaction.
func (dev *Dev) sendCommand(cmd command) error {
	return dev.write(cmd, cmd.bytes())
}

// sendCommandWithPayload writes a command followed by a 16-bit argument and
// its CRC in one transaction.
func (dev *Dev) sendCommandWithPayload(cmd command, payload uint16, crc byte) error {
	w := append(cmd.bytes(), byte(payload>>8), byte(payload), crc)
	return dev.write(cmd, w)
}

func (dev *Dev) write(cmd command, w []byte) error {
	dev.log.WithField("cmd", cmd).Debug("sht3x: send command")
	defer common.LockBus(dev.d.Bus)()
	if err := dev.d.Tx(w, nil); err != nil {
		return fmt.Errorf("sht3x: command %s: %w: %w", cmd, ErrBus, err)
	}
	return nil
}

// readBytes fills r in one read transaction.
func (dev *Dev) readBytes(r []byte) error {
	defer common.LockBus(dev.d.Bus)()
	if err := dev.d.Tx(nil, r); err != nil {
		return fmt.Errorf("sht3x: reading %d bytes: %w: %w", len(r), ErrBus, err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
