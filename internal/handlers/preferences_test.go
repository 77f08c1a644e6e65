package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquarium_control/internal/models"
	"aquarium_control/internal/service"
)

func TestPreferenceHandlers_Get(t *testing.T) {
	prefs := models.DefaultPreferences()
	s := &service.Service{Preferences: &mockPreferences{prefs: prefs}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.UserPreferences
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.MinGrnTemp != prefs.MinGrnTemp || got.TankHeight != prefs.TankHeight {
		t.Fatalf("preferences = %+v", got)
	}
}

func TestPreferenceHandlers_PartialPutMergesOverCurrent(t *testing.T) {
	current := models.DefaultPreferences()
	mp := &mockPreferences{prefs: current}
	s := &service.Service{Preferences: mp}
	r := newTestRouter(s)

	// The body only names the temperature floor; every other band must
	// keep its stored value.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences",
		bytes.NewBufferString(`{"minGrnTemp":23.5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d, body=%s", w.Code, w.Body.String())
	}

	if mp.lastSaved.MinGrnTemp != 23.5 {
		t.Fatalf("saved MinGrnTemp = %v, want 23.5", mp.lastSaved.MinGrnTemp)
	}
	if mp.lastSaved.MaxGrnTemp != current.MaxGrnTemp || mp.lastSaved.TankHeight != current.TankHeight {
		t.Fatalf("merge lost stored values: %+v", mp.lastSaved)
	}
}

func TestReportHandler(t *testing.T) {
	report := service.Report{
		Readings: []service.ReadingRow{{Date: "2026-03-10", Time: "09:00", Temp: 25.5, Eval: models.SeverityGreen}},
		Feedings: []service.FeedRow{{Date: "2026-03-10", Time: "08:00", Data: "Feeding Done!"}},
		Lights:   []service.LightRow{},
	}
	s := &service.Service{Reports: &mockReports{report: report}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("report status=%d, body=%s", w.Code, w.Body.String())
	}
	var got service.Report
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got.Readings) != 1 || got.Readings[0].Temp != 25.5 || len(got.Feedings) != 1 {
		t.Fatalf("report = %+v", got)
	}
}

func TestTokenHandler_Register(t *testing.T) {
	tokens := &mockTokens{created: true}
	s := &service.Service{Tokens: tokens}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens",
		bytes.NewBufferString(`{"token":"abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	if tokens.lastToken != "abc123" {
		t.Fatalf("token passed = %q", tokens.lastToken)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != statusTokenCreated {
		t.Fatalf("response = %+v", resp)
	}

	// Re-registration reports the known status.
	tokens.created = false
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tokens",
		bytes.NewBufferString(`{"token":"abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != statusTokenKnown {
		t.Fatalf("repeat response = %+v", resp)
	}

	// Missing token fails binding.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing token status=%d", w.Code)
	}
}
