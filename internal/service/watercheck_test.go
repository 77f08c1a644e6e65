package service

import (
	"context"
	"errors"
	"testing"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
)

func TestWaterMonitorCheck_AlertsOnDegradedQuality(t *testing.T) {
	sensors := &fakeSensorRepo{}
	prefs := &fakePrefsRepo{prefs: models.DefaultPreferences(), found: true}
	gw := &fakeGateway{}
	n := &fakeNotifier{}
	m := NewWaterMonitor(sensors, prefs, gw, n, logger.Get(logger.InfoLevel))

	reading := goodReading()
	reading.PH = 6.5
	reading.Eval = models.SeverityOrange
	if _, err := sensors.Insert(context.Background(), reading); err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if len(gw.qualityEvals) != 1 || gw.qualityEvals[0] != models.SeverityOrange {
		t.Fatalf("quality publishes = %v", gw.qualityEvals)
	}
	alerts := n.sent()
	if len(alerts) != 1 || alerts[0].body != "Water quality needs attention!" {
		t.Fatalf("alerts = %+v", alerts)
	}
}

func TestWaterMonitorCheck_GreenIsQuiet(t *testing.T) {
	sensors := &fakeSensorRepo{}
	prefs := &fakePrefsRepo{prefs: models.DefaultPreferences(), found: true}
	gw := &fakeGateway{}
	n := &fakeNotifier{}
	m := NewWaterMonitor(sensors, prefs, gw, n, logger.Get(logger.InfoLevel))

	reading := goodReading()
	reading.Eval = models.SeverityGreen
	if _, err := sensors.Insert(context.Background(), reading); err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(n.sent()) != 0 {
		t.Fatalf("alerts = %+v, want none for Green", n.sent())
	}
	// The device display still gets the quality view.
	if len(gw.qualityEvals) != 1 {
		t.Fatalf("quality publishes = %v, want 1", gw.qualityEvals)
	}
}

func TestWaterMonitorCheck_NoReadingsIsNotAnError(t *testing.T) {
	m := NewWaterMonitor(&fakeSensorRepo{}, &fakePrefsRepo{found: true}, &fakeGateway{}, &fakeNotifier{}, logger.Get(logger.InfoLevel))
	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("Check() with empty history error = %v", err)
	}
}

func TestWaterMonitorCheck_MissingPreferences(t *testing.T) {
	sensors := &fakeSensorRepo{}
	if _, err := sensors.Insert(context.Background(), goodReading()); err != nil {
		t.Fatalf("seed reading: %v", err)
	}
	m := NewWaterMonitor(sensors, &fakePrefsRepo{}, &fakeGateway{}, &fakeNotifier{}, logger.Get(logger.InfoLevel))
	if err := m.Check(context.Background()); !errors.Is(err, ErrPreferencesMissing) {
		t.Fatalf("Check() error = %v, want ErrPreferencesMissing", err)
	}
}
