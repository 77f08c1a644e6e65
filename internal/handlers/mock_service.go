package handlers

import (
	"context"

	"aquarium_control/internal/models"
	"aquarium_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockGateway struct {
	feedAck    string
	feedErr    error
	feedCalls  int
	lightErr   error
	lightCalls int
	lastSwitch string
	lastColor  string
}

func (m *mockGateway) FeedInstant(ctx context.Context) (string, error) {
	m.feedCalls++
	return m.feedAck, m.feedErr
}
func (m *mockGateway) LightInstant(ctx context.Context, switchState, color string) error {
	m.lightCalls++
	m.lastSwitch = switchState
	m.lastColor = color
	return m.lightErr
}
func (m *mockGateway) PublishStatus(ctx context.Context) error { return nil }
func (m *mockGateway) PublishQuality(ctx context.Context, eval string, notices []models.Deviation) error {
	return nil
}
func (m *mockGateway) PublishTankHeight(height float64) error { return nil }

type mockSchedules struct {
	entry      models.ScheduleEntry
	fired      bool
	createErr  error
	list       []models.ScheduleEntry
	listErr    error
	cancelErr  error
	lastParams service.ScheduleParams
	lastCancel struct {
		id  int64
		typ string
	}
}

func (m *mockSchedules) Create(ctx context.Context, p service.ScheduleParams) (models.ScheduleEntry, bool, error) {
	m.lastParams = p
	return m.entry, m.fired, m.createErr
}
func (m *mockSchedules) ListUpcoming(ctx context.Context) ([]models.ScheduleEntry, error) {
	return m.list, m.listErr
}
func (m *mockSchedules) Cancel(ctx context.Context, id int64, cancelType string) error {
	m.lastCancel.id = id
	m.lastCancel.typ = cancelType
	return m.cancelErr
}

type mockSensors struct {
	stored      models.SensorReading
	storeErr    error
	lastSample  service.SensorSample
	latest      models.SensorReading
	latestErr   error
	overview    service.Overview
	overviewErr error
}

func (m *mockSensors) Store(ctx context.Context, sample service.SensorSample) (models.SensorReading, error) {
	m.lastSample = sample
	return m.stored, m.storeErr
}
func (m *mockSensors) Latest(ctx context.Context) (models.SensorReading, error) {
	return m.latest, m.latestErr
}
func (m *mockSensors) LatestOverview(ctx context.Context) (service.Overview, error) {
	return m.overview, m.overviewErr
}
func (m *mockSensors) ReevaluateLatest(ctx context.Context) error { return nil }

type mockPreferences struct {
	prefs     models.UserPreferences
	getErr    error
	updateErr error
	lastSaved models.UserPreferences
}

func (m *mockPreferences) Get(ctx context.Context) (models.UserPreferences, error) {
	return m.prefs, m.getErr
}
func (m *mockPreferences) Update(ctx context.Context, p models.UserPreferences) error {
	m.lastSaved = p
	return m.updateErr
}

type mockReports struct {
	report service.Report
	err    error
}

func (m *mockReports) Build(ctx context.Context) (service.Report, error) {
	return m.report, m.err
}

type mockTokens struct {
	created   bool
	err       error
	lastToken string
}

func (m *mockTokens) Register(ctx context.Context, token string) (bool, error) {
	m.lastToken = token
	return m.created, m.err
}

type mockFeedings struct {
	feed models.FeedEvent
	err  error
}

func (m *mockFeedings) LatestFeed(ctx context.Context) (models.FeedEvent, error) {
	return m.feed, m.err
}

type mockLights struct {
	light       models.LightEvent
	latestErr   error
	recordErr   error
	changed     models.LightEvent
	changeErr   error
	lastStatus  string
	lastColor   string
	recordCalls int
}

func (m *mockLights) LatestLight(ctx context.Context) (models.LightEvent, error) {
	return m.light, m.latestErr
}
func (m *mockLights) RecordLight(ctx context.Context, status, color string) error {
	m.recordCalls++
	m.lastStatus = status
	m.lastColor = color
	return m.recordErr
}
func (m *mockLights) ChangeColor(ctx context.Context, color string) (models.LightEvent, error) {
	m.lastColor = color
	return m.changed, m.changeErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
