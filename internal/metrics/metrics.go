// Package metrics exposes the altimeter state as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sweeney/altimeter/internal/logic"
)

const namespace = "altimeter"

// Metrics holds the collectors for one daemon instance.
type Metrics struct {
	reg *prometheus.Registry

	pressure          prometheus.Gauge
	altitude          prometheus.Gauge
	simulatedPressure prometheus.Gauge
	simulatedAltitude prometheus.Gauge
	mqttConnected     prometheus.Gauge
	samples           prometheus.Counter
	presses           *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pressure_hpa",
			Help:      "Latest pressure reported by the sensor.",
		}),
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "altitude_meters",
			Help:      "Altitude derived from the sensor pressure.",
		}),
		simulatedPressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulated_pressure_hpa",
			Help:      "Pressure set by the simulation controls.",
		}),
		simulatedAltitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulated_altitude_meters",
			Help:      "Altitude derived from the simulated pressure.",
		}),
		mqttConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mqtt_connected",
			Help:      "1 while the MQTT broker connection is up.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Pressure samples received from the sensor.",
		}),
		presses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "button_presses_total",
			Help:      "Simulation control presses by button.",
		}, []string{"button"}),
	}

	m.reg.MustRegister(
		m.pressure, m.altitude,
		m.simulatedPressure, m.simulatedAltitude,
		m.mqttConnected, m.samples, m.presses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Both series exist from startup.
	m.presses.WithLabelValues(string(logic.ButtonDown))
	m.presses.WithLabelValues(string(logic.ButtonUp))

	return m
}

// Observe sets the gauges from a screen view.
func (m *Metrics) Observe(v logic.View) {
	m.pressure.Set(v.Pressure)
	m.altitude.Set(v.Altitude)
	m.simulatedPressure.Set(v.SimulatedPressure)
	m.simulatedAltitude.Set(v.SimulatedAltitude)
}

// IncSample counts one sensor sample.
func (m *Metrics) IncSample() {
	m.samples.Inc()
}

// IncPress counts one control press.
func (m *Metrics) IncPress(b logic.Button) {
	m.presses.WithLabelValues(string(b)).Inc()
}

// SetMQTTConnected records the broker connection state.
func (m *Metrics) SetMQTTConnected(connected bool) {
	if connected {
		m.mqttConnected.Set(1)
		return
	}
	m.mqttConnected.Set(0)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
