package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Real          RealJSON      `json:"real"`
	Simulated     SimulatedJSON `json:"simulated"`
	Display       DisplayJSON   `json:"display"`
	Sensor        SensorJSON    `json:"sensor"`
	Buttons       ButtonsJSON   `json:"buttons"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Network       *NetworkJSON  `json:"network,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// RealJSON is the sensor side of the screen. Non-finite numbers encode as null.
type RealJSON struct {
	PressureHPa *float64 `json:"pressure_hpa"`
	AltitudeM   *float64 `json:"altitude_m"`
	Meters      int      `json:"altitude_display_m"`
	Accuracy    string   `json:"accuracy"`
	LastSample  string   `json:"last_sample,omitempty"`
}

// SimulatedJSON is the simulated side of the screen.
type SimulatedJSON struct {
	PressureHPa *float64 `json:"pressure_hpa"`
	AltitudeM   *float64 `json:"altitude_m"`
	Meters      int      `json:"altitude_display_m"`
}

// DisplayJSON carries the presentation band for live clients.
type DisplayJSON struct {
	Band       int    `json:"band"`
	Background string `json:"background"`
	Text       string `json:"text"`
	TextColor  string `json:"text_color"`
}

// SensorJSON reports the sensor subscription.
type SensorJSON struct {
	Active  bool `json:"active"`
	Samples int  `json:"samples"`
}

// ButtonsJSON reports control activity.
type ButtonsJSON struct {
	GPIO bool `json:"gpio"`
	Down int  `json:"down_presses"`
	Up   int  `json:"up_presses"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SampleMs    int64  `json:"sample_ms"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func number(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func buildInner(snap Snapshot) StatusInner {
	v := snap.View

	inner := StatusInner{
		Real: RealJSON{
			PressureHPa: number(v.Pressure),
			AltitudeM:   number(v.Altitude),
			Meters:      v.AltitudeMeters(),
			Accuracy:    string(v.Accuracy),
		},
		Simulated: SimulatedJSON{
			PressureHPa: number(v.SimulatedPressure),
			AltitudeM:   number(v.SimulatedAltitude),
			Meters:      v.SimulatedAltitudeMeters(),
		},
		Display: DisplayJSON{
			Band:       int(v.Background),
			Background: v.Background.Color(),
			Text:       string(v.Text),
			TextColor:  v.Text.Color(),
		},
		Sensor: SensorJSON{Active: snap.SensorActive, Samples: snap.Counts.Samples},
		Buttons: ButtonsJSON{
			GPIO: snap.ButtonsActive,
			Down: snap.Counts.DownPress,
			Up:   snap.Counts.UpPress,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SampleMs:    snap.Config.SampleMs,
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if v.Accuracy == "" {
		inner.Real.Accuracy = string(altitude.AccuracyUnknown)
	}
	if !snap.LastSample.IsZero() {
		inner.Real.LastSample = snap.LastSample.UTC().Format(time.RFC3339)
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
