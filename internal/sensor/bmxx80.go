package sensor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// DefaultAddr is the BMP280/BME280 I2C address with SDO tied low.
const DefaultAddr = 0x76

// Config selects and tunes the BMx280 device.
type Config struct {
	Bus          string // I2C bus name, "" for the first available
	Addr         uint16
	Interval     time.Duration
	Oversampling bmxx80.Oversampling
}

// RealSource reads a Bosch BMP280/BME280 over I2C.
type RealSource struct {
	mu       sync.Mutex
	bus      i2c.BusCloser
	dev      *bmxx80.Dev
	interval time.Duration
	level    int
	done     chan struct{}
	closed   bool
}

// NewRealSource initializes the periph host and opens the device.
func NewRealSource(cfg Config) (*RealSource, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", cfg.Interval)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	opts := bmxx80.DefaultOpts
	opts.Pressure = cfg.Oversampling
	dev, err := bmxx80.NewI2C(bus, cfg.Addr, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("bmxx80 at %#x: %w", cfg.Addr, err)
	}

	return &RealSource{
		bus:      bus,
		dev:      dev,
		interval: cfg.Interval,
		level:    levelFor(cfg.Oversampling),
	}, nil
}

// Resume starts continuous sensing. The first event is an accuracy event
// derived from the pressure oversampling.
func (s *RealSource) Resume() (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("sensor: closed")
	}
	if s.done != nil {
		return nil, errors.New("sensor: already resumed")
	}

	envs, err := s.dev.SenseContinuous(s.interval)
	if err != nil {
		return nil, fmt.Errorf("start continuous sensing: %w", err)
	}

	out := make(chan Event, 1)
	s.done = make(chan struct{})
	go forward(envs, out, s.done, s.level)
	return out, nil
}

func forward(envs <-chan physic.Env, out chan<- Event, done <-chan struct{}, level int) {
	defer close(out)

	select {
	case out <- Event{Kind: KindAccuracy, Level: level, Time: time.Now()}:
	case <-done:
		return
	}

	for {
		select {
		case e, ok := <-envs:
			if !ok {
				return
			}
			ev := Event{Kind: KindPressure, Pressure: hpa(e.Pressure), Time: time.Now()}
			select {
			case out <- ev:
			case <-done:
				return
			}
		case <-done:
			return
		}
	}
}

// Pause halts continuous sensing.
func (s *RealSource) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauseLocked()
}

func (s *RealSource) pauseLocked() error {
	if s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	if err := s.dev.Halt(); err != nil {
		return fmt.Errorf("halt sensing: %w", err)
	}
	return nil
}

// Close pauses delivery and closes the I2C bus.
func (s *RealSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.pauseLocked(); err != nil {
		errs = append(errs, err)
	}
	if err := s.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func hpa(p physic.Pressure) float64 {
	pa := float64(p) / float64(physic.Pascal)
	return pa / 100.0 // 1 hPa = 100 Pa
}

// levelFor maps pressure oversampling to a platform accuracy level.
func levelFor(o bmxx80.Oversampling) int {
	switch o {
	case bmxx80.O16x:
		return altitude.LevelHigh
	case bmxx80.O4x, bmxx80.O8x:
		return altitude.LevelMedium
	case bmxx80.O1x, bmxx80.O2x:
		return altitude.LevelLow
	default:
		return altitude.LevelUnreliable
	}
}

// ParseOversampling converts a sample count (1, 2, 4, 8, 16) to the driver setting.
func ParseOversampling(n int) (bmxx80.Oversampling, error) {
	switch n {
	case 1:
		return bmxx80.O1x, nil
	case 2:
		return bmxx80.O2x, nil
	case 4:
		return bmxx80.O4x, nil
	case 8:
		return bmxx80.O8x, nil
	case 16:
		return bmxx80.O16x, nil
	default:
		return bmxx80.Off, fmt.Errorf("invalid oversampling %d (want 1, 2, 4, 8 or 16)", n)
	}
}
