package mqtt

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
	"github.com/sweeney/altimeter/internal/logic"
)

var ts = time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

func TestFormatPayloadExactJSON(t *testing.T) {
	r := logic.Reading{
		Timestamp:   ts,
		Source:      logic.SourceSensor,
		PressureHPa: 1013.25,
		AltitudeM:   0,
		Accuracy:    altitude.AccuracyHigh,
	}

	payload, err := FormatPayload(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"altitude":{"timestamp":"2026-02-02T22:18:12Z","source":"SENSOR","pressure_hpa":1013.25,"altitude_m":0,"accuracy":"High"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadSimulated(t *testing.T) {
	r := logic.Reading{
		Timestamp:   ts,
		Source:      logic.SourceSimulated,
		PressureHPa: 913.25,
		AltitudeM:   altitude.FromPressure(913.25),
		Accuracy:    altitude.AccuracyUnknown,
	}

	payload, err := FormatPayload(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	a := parsed.Altitude
	if a.Source != "SIMULATED" {
		t.Errorf("source: got %s", a.Source)
	}
	if a.PressureHPa == nil || *a.PressureHPa != 913.25 {
		t.Errorf("pressure_hpa: got %v", a.PressureHPa)
	}
	if a.AltitudeM == nil || *a.AltitudeM < 860 || *a.AltitudeM > 880 {
		t.Errorf("altitude_m: got %v, want about 868", a.AltitudeM)
	}
}

func TestFormatPayloadNonFiniteIsNull(t *testing.T) {
	r := logic.Reading{
		Timestamp:   ts,
		Source:      logic.SourceSensor,
		PressureHPa: -5,
		AltitudeM:   math.NaN(),
		Accuracy:    altitude.AccuracyLow,
	}

	payload, err := FormatPayload(r)
	if err != nil {
		t.Fatalf("NaN altitude should not fail: %v", err)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	v, ok := parsed["altitude"]["altitude_m"]
	if !ok || v != nil {
		t.Errorf("altitude_m: got %v (present=%v), want null", v, ok)
	}
	if parsed["altitude"]["pressure_hpa"] != -5.0 {
		t.Errorf("pressure_hpa: got %v", parsed["altitude"]["pressure_hpa"])
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	r := logic.Reading{Timestamp: time.Date(2026, 2, 3, 0, 18, 12, 0, loc), Source: logic.SourceSensor}

	payload, err := FormatPayload(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Altitude.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("timestamp should be UTC, got %s", parsed.Altitude.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "altimeter/sensor/readings" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "altimeter/sensor/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	tests := []struct {
		name  string
		event SystemEvent
		want  string
	}{
		{
			name:  "will",
			event: SystemEvent{Timestamp: ts, Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT"},
			want:  `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`,
		},
		{
			name:  "reconnected omits reason",
			event: SystemEvent{Timestamp: ts, Event: "RECONNECTED"},
			want:  `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"RECONNECTED"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatSystemPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.want {
				t.Errorf("got:  %s\nwant: %s", payload, tt.want)
			}
		})
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload should pass through, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	pub := NewFakePublisher()
	r := logic.Reading{Timestamp: ts, Source: logic.SourceSimulated, PressureHPa: 913.25}

	if err := pub.Publish(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pub.PublishSystem(SystemEvent{Timestamp: ts, Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pub.ReadingCount() != 1 || len(pub.Payloads) != 1 {
		t.Fatalf("expected 1 reading, got %d", pub.ReadingCount())
	}
	if pub.Readings[0] != r {
		t.Errorf("reading not preserved: %+v", pub.Readings[0])
	}
	if len(pub.SystemEvents) != 1 || !pub.SystemEvents[0].Retained {
		t.Errorf("system events: %+v", pub.SystemEvents)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = errors.New("broker down")
	pub.PublishSystemError = errors.New("broker down")

	if err := pub.Publish(logic.Reading{}); err == nil {
		t.Error("expected publish error")
	}
	if err := pub.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected system publish error")
	}
	if pub.ReadingCount() != 0 || len(pub.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	pub := NewFakePublisher()
	pub.Connected = true
	_ = pub.Publish(logic.Reading{})
	_ = pub.PublishSystem(SystemEvent{Event: "STARTUP"})
	_ = pub.Close()

	pub.Reset()

	if pub.ReadingCount() != 0 || len(pub.SystemEvents) != 0 || pub.Closed || pub.IsConnected() {
		t.Errorf("reset incomplete: %+v", pub)
	}
}
