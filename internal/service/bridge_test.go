package service

import (
	"context"
	"testing"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/mqtt"
)

func testBridge(transport *fakeTransport, sensors *fakeSensorRepo, prefs *fakePrefsRepo, feeds *fakeFeedRepo, lights *fakeLightRepo, gw *fakeGateway) (*Bridge, *mqtt.Correlator) {
	log := logger.Get(logger.InfoLevel)
	corr := mqtt.NewCorrelator(log)
	b := NewBridge(transport, corr, sensors, prefs, feeds, lights, gw, log)
	b.Register()
	return b, corr
}

func TestBridgeRegister_InstallsAllTopics(t *testing.T) {
	transport := newFakeTransport()
	testBridge(transport, &fakeSensorRepo{}, &fakePrefsRepo{}, &fakeFeedRepo{}, &fakeLightRepo{}, &fakeGateway{})

	for _, topic := range []string{
		mqtt.TopicSensor, mqtt.TopicResponse, mqtt.TopicCommand,
		mqtt.TopicPump, mqtt.TopicWaterLv, mqtt.TopicReqStatus, mqtt.TopicDisplay,
	} {
		if transport.routes[transport.Topic(topic)] == nil {
			t.Fatalf("topic %q not routed", topic)
		}
	}
}

func TestBridgeSensorTopic_StoresClassifiedReading(t *testing.T) {
	transport := newFakeTransport()
	sensors := &fakeSensorRepo{}
	prefs := &fakePrefsRepo{prefs: models.DefaultPreferences(), found: true}
	testBridge(transport, sensors, prefs, &fakeFeedRepo{}, &fakeLightRepo{}, &fakeGateway{})

	handler := transport.routes[transport.Topic(mqtt.TopicSensor)]
	if err := handler([]byte(`{"temp":18.0,"ph":7.5,"tds":300,"waterLv":95}`)); err != nil {
		t.Fatalf("sensor handler error = %v", err)
	}

	latest, err := sensors.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Temp != 18.0 || latest.Eval != models.SeverityRed {
		t.Fatalf("stored reading = %+v, want temp 18 classified Red", latest)
	}
}

func TestBridgeSensorTopic_RejectsPartialPayload(t *testing.T) {
	transport := newFakeTransport()
	sensors := &fakeSensorRepo{}
	prefs := &fakePrefsRepo{prefs: models.DefaultPreferences(), found: true}
	testBridge(transport, sensors, prefs, &fakeFeedRepo{}, &fakeLightRepo{}, &fakeGateway{})

	handler := transport.routes[transport.Topic(mqtt.TopicSensor)]
	if err := handler([]byte(`{"temp":25.0}`)); err == nil {
		t.Fatal("partial payload must be rejected")
	}
	if err := handler([]byte(`not json`)); err == nil {
		t.Fatal("malformed payload must be rejected")
	}
	if _, err := sensors.Latest(context.Background()); err == nil {
		t.Fatal("rejected payloads must not be stored")
	}
}

func TestBridgeResponseTopic_UnblocksAwaiter(t *testing.T) {
	transport := newFakeTransport()
	_, corr := testBridge(transport, &fakeSensorRepo{}, &fakePrefsRepo{}, &fakeFeedRepo{}, &fakeLightRepo{}, &fakeGateway{})

	if err := corr.Arm(); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}

	handler := transport.routes[transport.Topic(mqtt.TopicResponse)]
	if err := handler([]byte("Feeding Done!")); err != nil {
		t.Fatalf("response handler error = %v", err)
	}

	got, err := corr.Await(time.Second)
	if err != nil || got != "Feeding Done!" {
		t.Fatalf("Await() = %q, %v", got, err)
	}
}

func TestBridgeDisplayTopic_RecordsDeviceSideEvents(t *testing.T) {
	transport := newFakeTransport()
	feeds := &fakeFeedRepo{}
	lights := &fakeLightRepo{}
	if _, err := lights.Insert(context.Background(), models.LightEvent{Status: models.LightOff, Color: "rgb(9, 9, 9)"}); err != nil {
		t.Fatalf("seed light: %v", err)
	}
	testBridge(transport, &fakeSensorRepo{}, &fakePrefsRepo{}, feeds, lights, &fakeGateway{})

	handler := transport.routes[transport.Topic(mqtt.TopicDisplay)]
	if err := handler([]byte(`{"feed":"pressed","light":"Light ON"}`)); err != nil {
		t.Fatalf("display handler error = %v", err)
	}

	feed, err := feeds.Latest(context.Background())
	if err != nil || feed.Data != "Feed Successful!" {
		t.Fatalf("feed event = %+v, %v", feed, err)
	}
	light, err := lights.Latest(context.Background())
	if err != nil || light.Status != models.LightOn || light.Color != "rgb(9, 9, 9)" {
		t.Fatalf("light event = %+v, %v; want ON with kept color", light, err)
	}
}
