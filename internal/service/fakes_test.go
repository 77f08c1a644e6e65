package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"aquarium_control/internal/models"
	"aquarium_control/internal/mqtt"
	"aquarium_control/internal/repository"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

// In-memory fakes shared across the service tests.

type fakeScheduleRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]models.ScheduleEntry

	createErr error
	listErr   error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{entries: make(map[int64]models.ScheduleEntry)}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, e models.ScheduleEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = e
	return e.ID, nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (models.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return models.ScheduleEntry{}, repository.ErrScheduleNotFound
	}
	return e, nil
}

func (f *fakeScheduleRepo) ListByDateStatus(ctx context.Context, date, status string) ([]models.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ScheduleEntry
	for _, e := range f.entries {
		if e.WorkingDate == date && e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByDate(ctx context.Context, date string) ([]models.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScheduleEntry
	for _, e := range f.entries {
		if e.WorkingDate == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	f.entries[id] = e
	return true, nil
}

func (f *fakeScheduleRepo) UpdateDate(ctx context.Context, id int64, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return repository.ErrScheduleNotFound
	}
	e.WorkingDate = date
	f.entries[id] = e
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return repository.ErrScheduleNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeScheduleRepo) Latest(ctx context.Context) (models.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextID == 0 {
		return models.ScheduleEntry{}, repository.ErrScheduleNotFound
	}
	return f.entries[f.nextID], nil
}

func (f *fakeScheduleRepo) get(id int64) models.ScheduleEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[id]
}

type fakeFeedRepo struct {
	mu     sync.Mutex
	events []models.FeedEvent
	err    error
}

func (f *fakeFeedRepo) Insert(ctx context.Context, e models.FeedEvent) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, e)
	return e.ID, nil
}

func (f *fakeFeedRepo) Latest(ctx context.Context) (models.FeedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return models.FeedEvent{}, repository.ErrNoFeedings
	}
	return f.events[len(f.events)-1], nil
}

func (f *fakeFeedRepo) List(ctx context.Context) ([]models.FeedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FeedEvent(nil), f.events...), nil
}

type fakeLightRepo struct {
	mu     sync.Mutex
	events []models.LightEvent
	err    error
}

func (f *fakeLightRepo) Insert(ctx context.Context, e models.LightEvent) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, e)
	return e.ID, nil
}

func (f *fakeLightRepo) Latest(ctx context.Context) (models.LightEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return models.LightEvent{}, repository.ErrNoLights
	}
	return f.events[len(f.events)-1], nil
}

func (f *fakeLightRepo) List(ctx context.Context) ([]models.LightEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.LightEvent(nil), f.events...), nil
}

type fakeSensorRepo struct {
	mu       sync.Mutex
	readings []models.SensorReading
	err      error
}

func (f *fakeSensorRepo) Insert(ctx context.Context, r models.SensorReading) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	r.ID = int64(len(f.readings) + 1)
	f.readings = append(f.readings, r)
	return r.ID, nil
}

func (f *fakeSensorRepo) Latest(ctx context.Context) (models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.readings) == 0 {
		return models.SensorReading{}, repository.ErrNoReadings
	}
	return f.readings[len(f.readings)-1], nil
}

func (f *fakeSensorRepo) UpdateEval(ctx context.Context, id int64, eval string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.readings {
		if f.readings[i].ID == id {
			f.readings[i].Eval = eval
			return nil
		}
	}
	return repository.ErrNoReadings
}

func (f *fakeSensorRepo) List(ctx context.Context) ([]models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SensorReading(nil), f.readings...), nil
}

type fakePrefsRepo struct {
	prefs models.UserPreferences
	found bool
	err   error
}

func (f *fakePrefsRepo) Load(ctx context.Context) (models.UserPreferences, bool, error) {
	return f.prefs, f.found, f.err
}

func (f *fakePrefsRepo) Save(ctx context.Context, p models.UserPreferences) error {
	f.prefs = p
	f.found = true
	return f.err
}

// fakeGateway records calls instead of talking to the broker.
type fakeGateway struct {
	mu sync.Mutex

	feedCalls  int
	feedErr    error
	feedAck    string
	lightCalls []string // "SWITCH/COLOR"
	lightErr   error

	qualityEvals []string
	heights      []float64
}

func (g *fakeGateway) FeedInstant(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feedCalls++
	if g.feedErr != nil {
		return "", g.feedErr
	}
	if g.feedAck == "" {
		return "Feeding Done!", nil
	}
	return g.feedAck, nil
}

func (g *fakeGateway) LightInstant(ctx context.Context, switchState, color string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lightCalls = append(g.lightCalls, switchState+"/"+color)
	return g.lightErr
}

func (g *fakeGateway) PublishStatus(ctx context.Context) error { return nil }

func (g *fakeGateway) PublishQuality(ctx context.Context, eval string, notices []models.Deviation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.qualityEvals = append(g.qualityEvals, eval)
	return nil
}

func (g *fakeGateway) PublishTankHeight(height float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.heights = append(g.heights, height)
	return nil
}

type sentAlert struct {
	title    string
	body     string
	severity string
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []sentAlert
	err    error
}

func (n *fakeNotifier) SendAlert(title, body, severity string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, sentAlert{title, body, severity})
	return n.err
}

func (n *fakeNotifier) sent() []sentAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentAlert(nil), n.alerts...)
}

type fakeChecker struct {
	calls int
	err   error
}

func (c *fakeChecker) Check(ctx context.Context) error {
	c.calls++
	return c.err
}

// fakeTransport is an in-process stand-in for the broker client.
type fakeTransport struct {
	mu         sync.Mutex
	connectErr error
	publishErr error
	published  []publishedMsg
	routes     map[string]mqtt.Handler
}

type publishedMsg struct {
	topic   string
	payload string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{routes: make(map[string]mqtt.Handler)}
}

func (t *fakeTransport) Connect() error { return t.connectErr }

func (t *fakeTransport) Publish(topic string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.publishErr != nil {
		return t.publishErr
	}
	t.published = append(t.published, publishedMsg{topic: topic, payload: string(payload)})
	return nil
}

func (t *fakeTransport) Handle(topic string, h mqtt.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[topic] = h
}

func (t *fakeTransport) Topic(name string) string { return "Freshyfishy/" + name }

func (t *fakeTransport) sent() []publishedMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]publishedMsg(nil), t.published...)
}
