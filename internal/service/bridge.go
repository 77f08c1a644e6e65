package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/mqtt"
	"aquarium_control/internal/repository"
)

// Bridge owns the inbound topic → handler table. Messages arrive on the
// transport's dispatch loop; every handler decodes, acts, and returns.
// Blocking work (the command gateway) never runs here.
type Bridge struct {
	transport Transport
	corr      *mqtt.Correlator
	sensors   repository.SensorRepo
	prefs     repository.PreferencesRepo
	feeds     repository.FeedRepo
	lights    repository.LightRepo
	gateway   Gateway
	log       *logger.Logger
}

func NewBridge(transport Transport, corr *mqtt.Correlator, sensors repository.SensorRepo, prefs repository.PreferencesRepo, feeds repository.FeedRepo, lights repository.LightRepo, gateway Gateway, log *logger.Logger) *Bridge {
	return &Bridge{
		transport: transport,
		corr:      corr,
		sensors:   sensors,
		prefs:     prefs,
		feeds:     feeds,
		lights:    lights,
		gateway:   gateway,
		log:       log,
	}
}

// Register installs the fixed routing table. Called once at wiring time;
// the transport (re)subscribes the topics on every connect.
func (b *Bridge) Register() {
	t := b.transport

	t.Handle(t.Topic(mqtt.TopicSensor), b.handleSensor)
	t.Handle(t.Topic(mqtt.TopicResponse), b.handleResponse)
	t.Handle(t.Topic(mqtt.TopicCommand), b.logOnly("command_echo"))
	t.Handle(t.Topic(mqtt.TopicPump), b.logOnly("pump_status"))
	t.Handle(t.Topic(mqtt.TopicWaterLv), b.logOnly("water_level_report"))
	t.Handle(t.Topic(mqtt.TopicReqStatus), b.handleStatusRequest)
	t.Handle(t.Topic(mqtt.TopicDisplay), b.handleDisplay)
}

// telemetryPayload is the sensor topic wire format.
type telemetryPayload struct {
	Temp    *float64 `json:"temp"`
	PH      *float64 `json:"ph"`
	TDS     *float64 `json:"tds"`
	WaterLv *float64 `json:"waterLv"`
}

// handleSensor decodes a telemetry sample, classifies it against the
// current preferences and persists the reading.
func (b *Bridge) handleSensor(payload []byte) error {
	var sample telemetryPayload
	if err := json.Unmarshal(payload, &sample); err != nil {
		return fmt.Errorf("decode sensor payload: %w", err)
	}
	if sample.Temp == nil || sample.PH == nil || sample.TDS == nil || sample.WaterLv == nil {
		return fmt.Errorf("sensor payload missing fields: %s", payload)
	}

	ctx := context.Background()
	prefs, found, err := b.prefs.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ErrPreferencesMissing
	}

	reading := models.SensorReading{
		Temp:       *sample.Temp,
		PH:         *sample.PH,
		TDS:        *sample.TDS,
		WaterLevel: *sample.WaterLv,
	}
	reading.Eval = Classify(reading, prefs)

	if _, err := b.sensors.Insert(ctx, reading); err != nil {
		return fmt.Errorf("store sensor reading: %w", err)
	}
	b.log.Infow("sensor_reading_stored",
		"temp", reading.Temp, "ph", reading.PH,
		"tds", reading.TDS, "waterLv", reading.WaterLevel,
		"eval", reading.Eval,
	)
	return nil
}

// handleResponse feeds the acknowledgement to whoever is blocked awaiting
// it. Dangling acks are the correlator's problem, not ours.
func (b *Bridge) handleResponse(payload []byte) error {
	b.corr.Deliver(string(payload))
	return nil
}

// handleStatusRequest answers a device status poll with the latest
// feed/light snapshot.
func (b *Bridge) handleStatusRequest([]byte) error {
	return b.gateway.PublishStatus(context.Background())
}

// displayPayload carries on-device changes: either key may be absent.
type displayPayload struct {
	Feed  *string `json:"feed"`
	Light *string `json:"light"`
}

// handleDisplay persists feed/light events signaled by the device's local
// controls, then pushes the refreshed snapshot back.
func (b *Bridge) handleDisplay(payload []byte) error {
	var update displayPayload
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("decode display payload: %w", err)
	}

	ctx := context.Background()

	if update.Feed != nil {
		if _, err := b.feeds.Insert(ctx, models.FeedEvent{Data: "Feed Successful!"}); err != nil {
			return fmt.Errorf("store display feed event: %w", err)
		}
		b.log.Infow("display_feed_stored", "feed", *update.Feed)
	}

	if update.Light != nil {
		status := models.LightOff
		if strings.Contains(*update.Light, models.LightOn) {
			status = models.LightOn
		}

		// Keep the last chosen color; the device only reports ON/OFF.
		color := models.DefaultLightColor
		if latest, err := b.lights.Latest(ctx); err == nil {
			color = latest.Color
		}

		if _, err := b.lights.Insert(ctx, models.LightEvent{Status: status, Color: color}); err != nil {
			return fmt.Errorf("store display light event: %w", err)
		}
		b.log.Infow("display_light_stored", "status", status, "color", color)
	}

	return b.gateway.PublishStatus(ctx)
}

// logOnly returns a handler that records the payload and nothing else.
func (b *Bridge) logOnly(name string) mqtt.Handler {
	return func(payload []byte) error {
		b.log.Infow(name, "payload", string(payload))
		return nil
	}
}
