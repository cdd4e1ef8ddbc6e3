// Command altimeter reads a barometric pressure sensor, shows real and
// simulated altitude on a web screen, and publishes readings to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
	"github.com/sweeney/altimeter/internal/config"
	"github.com/sweeney/altimeter/internal/gpio"
	"github.com/sweeney/altimeter/internal/logic"
	"github.com/sweeney/altimeter/internal/metrics"
	"github.com/sweeney/altimeter/internal/mqtt"
	"github.com/sweeney/altimeter/internal/sensor"
	"github.com/sweeney/altimeter/internal/status"
	"github.com/sweeney/altimeter/internal/web"
)

// envFileVar names the env file to load before flags are parsed.
const envFileVar = "ALTIMETER_ENV_FILE"

func main() {
	envFile := config.DefaultEnvFile
	if v, ok := os.LookupEnv(envFileVar); ok {
		envFile = v
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	flag.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address")
	flag.StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "MQTT client ID")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP screen address (empty to disable)")
	flag.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.I2CBus, "i2c-bus", cfg.I2CBus, "I2C bus name (empty for the first bus)")
	i2cAddr := flag.Uint("i2c-addr", uint(cfg.I2CAddr), "I2C address of the BMP280/BME280")
	flag.DurationVar(&cfg.SampleEvery, "sample", cfg.SampleEvery, "Sensor sampling interval")
	flag.IntVar(&cfg.Oversampling, "oversampling", cfg.Oversampling, "Pressure oversampling (1, 2, 4, 8 or 16)")
	flag.BoolVar(&cfg.Buttons, "buttons", cfg.Buttons, "Read the GPIO simulation buttons")
	flag.IntVar(&cfg.PinDown, "pin-down", cfg.PinDown, "BCM pin number for the -100 hPa button")
	flag.IntVar(&cfg.PinUp, "pin-up", cfg.PinUp, "BCM pin number for the +100 hPa button")
	flag.DurationVar(&cfg.Poll, "poll", cfg.Poll, "GPIO polling interval")
	flag.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Button debounce duration")
	printState := flag.Bool("print-state", false, "Print one sensor reading and the button states, then exit")

	flag.Parse()
	cfg.I2CAddr = uint16(*i2cAddr)

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	if cfg.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", cfg.Poll)
	}
	oversampling, err := sensor.ParseOversampling(cfg.Oversampling)
	if err != nil {
		return err
	}

	// Missing hardware is not fatal: the screen keeps its defaults.
	var source sensor.Source
	bmp, err := sensor.NewRealSource(sensor.Config{
		Bus:          cfg.I2CBus,
		Addr:         cfg.I2CAddr,
		Interval:     cfg.SampleEvery,
		Oversampling: oversampling,
	})
	if err != nil {
		log.Printf("sensor unavailable, showing defaults: %v", err)
	} else {
		source = bmp
		defer bmp.Close()
	}

	var buttons gpio.Reader
	if cfg.Buttons {
		r, err := gpio.NewRealReader(cfg.PinDown, cfg.PinUp)
		if err != nil {
			log.Printf("buttons unavailable: %v", err)
		} else {
			buttons = r
			defer r.Close()
		}
	}

	if printState {
		return printOnce(source, buttons)
	}

	publisher := mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID)
	defer publisher.Close()

	m := metrics.New()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:    cfg.SampleEvery.Milliseconds(),
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
	}, logic.NewScreen().View())
	if net := config.ReadNetworkInfo(cfg.NetworkEnvFile); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	controls := make(chan logic.Button)

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, controls, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http screen listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: sample=%v poll=%v debounce=%v broker=%s heartbeat=%v",
		cfg.SampleEvery, cfg.Poll, cfg.Debounce, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		source:     source,
		buttons:    buttons,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		metrics:    m,
		debounce:   cfg.Debounce,
		heartbeat:  cfg.Heartbeat,
		networkEnv: cfg.NetworkEnvFile,
		now:        time.Now,
		tick:       ticker.C,
		controls:   controls,
		sig:        sigCh,
	}
	return l.run()
}

// printOnce waits for a single pressure sample and reads the buttons.
func printOnce(source sensor.Source, buttons gpio.Reader) error {
	if source != nil {
		events, err := source.Resume()
		if err != nil {
			return fmt.Errorf("resume sensor: %w", err)
		}
		timeout := time.After(5 * time.Second)
	wait:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return errors.New("sensor stopped before the first sample")
				}
				if ev.Kind == sensor.KindAccuracy {
					fmt.Printf("Accuracy: %s\n", altitude.AccuracyFromLevel(ev.Level))
					continue
				}
				fmt.Printf("Pressure: %g hPa, Altitude: %d m\n",
					ev.Pressure, altitude.Meters(altitude.FromPressure(ev.Pressure)))
				break wait
			case <-timeout:
				return errors.New("no sensor sample within 5s")
			}
		}
		source.Pause()
	} else {
		fmt.Println("Sensor: unavailable")
	}

	if buttons != nil {
		down, up, err := buttons.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("DOWN: %s, UP: %s\n", stateString(down), stateString(up))
	}
	return nil
}

// loop owns the screen and the button detector. Everything it touches is
// mutated from its goroutine only.
type loop struct {
	source     sensor.Source // nil without hardware
	buttons    gpio.Reader   // nil without buttons
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	metrics    *metrics.Metrics // may be nil
	debounce   time.Duration
	heartbeat  time.Duration
	networkEnv string

	now      func() time.Time
	tick     <-chan time.Time
	controls <-chan logic.Button
	sig      <-chan os.Signal

	screen   *logic.Screen
	detector *logic.Detector
}

func (l *loop) run() error {
	l.screen = logic.NewScreen()
	l.detector = logic.NewDetector(l.debounce)
	hb := logic.NewHeartbeat(l.now())

	var events <-chan sensor.Event
	if l.source != nil {
		ch, err := l.source.Resume()
		if err != nil {
			log.Printf("sensor resume error: %v", err)
		} else {
			events = ch
			l.tracker.SetSensorActive(true)
		}
	}
	l.tracker.SetButtonsActive(l.buttons != nil)
	l.refresh()

	for {
		select {
		case s := <-l.sig:
			log.Printf("received %v, shutting down", s)
			if l.source != nil {
				if err := l.source.Pause(); err != nil {
					log.Printf("sensor pause error: %v", err)
				}
				l.tracker.SetSensorActive(false)
			}
			l.shutdown(signalName(s))
			return nil

		case ev, ok := <-events:
			if !ok {
				log.Printf("sensor stream closed")
				events = nil
				l.tracker.SetSensorActive(false)
				continue
			}
			l.applySensor(ev)

		case b := <-l.controls:
			l.applyPress(logic.Press{Timestamp: l.now(), Button: b})

		case <-l.tick:
			t := l.now()
			if l.buttons != nil {
				down, up, err := l.buttons.Read()
				if err != nil {
					log.Printf("gpio read error: %v", err)
				} else {
					for _, p := range l.detector.Process(logic.Input{Down: down, Up: up, Time: t}) {
						l.applyPress(p)
					}
				}
			}

			if hbData := hb.Check(t, l.heartbeat); hbData != nil {
				l.sendHeartbeat(hbData)
			}

			l.syncMQTT()
		}
	}
}

func (l *loop) applySensor(ev sensor.Event) {
	switch ev.Kind {
	case sensor.KindPressure:
		r := l.screen.ApplyPressure(ev.Pressure, ev.Time)
		if l.metrics != nil {
			l.metrics.IncSample()
		}
		if err := l.publisher.Publish(r); err != nil {
			log.Printf("publish error: %v", err)
		}
	case sensor.KindAccuracy:
		a := altitude.AccuracyFromLevel(ev.Level)
		log.Printf("sensor accuracy: %s", a)
		l.screen.ApplyAccuracy(a)
	default:
		log.Printf("unknown sensor event: %v", ev.Kind)
		return
	}
	l.refresh()
}

func (l *loop) applyPress(p logic.Press) {
	r, ok := l.screen.Press(p.Button, p.Timestamp)
	if !ok {
		log.Printf("unknown control: %q", p.Button)
		return
	}
	log.Printf("press: %s -> simulated %g hPa (%d m)", p.Button, r.PressureHPa, altitude.Meters(r.AltitudeM))
	if l.metrics != nil {
		l.metrics.IncPress(p.Button)
	}
	if err := l.publisher.Publish(r); err != nil {
		log.Printf("publish error: %v", err)
	}
	l.refresh()
}

// refresh pushes the screen state to the tracker and metrics.
func (l *loop) refresh() {
	v := l.screen.View()
	l.tracker.Update(v, l.screen.Counts(), l.screen.LastSample())
	if l.metrics != nil {
		l.metrics.Observe(v)
	}
}

func (l *loop) syncMQTT() {
	if l.mqttStatus == nil {
		return
	}
	connected := l.mqttStatus.IsConnected()
	l.tracker.SetMQTTConnected(connected)
	if l.metrics != nil {
		l.metrics.SetMQTTConnected(connected)
	}
}

func (l *loop) sendHeartbeat(hbData *logic.HeartbeatData) {
	c := l.screen.Counts()
	log.Printf("heartbeat: uptime=%v samples=%d down=%d up=%d", hbData.Uptime, c.Samples, c.DownPress, c.UpPress)

	l.syncMQTT()
	if net := config.ReadNetworkInfo(l.networkEnv); net != nil {
		l.tracker.SetNetwork(net)
	}
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  hbData.Timestamp,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (l *loop) shutdown(reason string) {
	l.syncMQTT()
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

func stateString(pressed bool) string {
	if pressed {
		return string(logic.StatePressed)
	}
	return string(logic.StateReleased)
}
