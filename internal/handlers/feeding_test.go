package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
	"aquarium_control/internal/service"
)

func TestFeedingHandlers_InstantAndSchedule(t *testing.T) {
	gw := &mockGateway{feedAck: "Feeding Done!"}
	sch := &mockSchedules{entry: models.ScheduleEntry{ID: 1, WorkingTime: "18:30", Description: models.DescFeedOn}}
	s := &service.Service{
		Gateway:   gw,
		Schedules: sch,
		Feedings:  &mockFeedings{},
	}
	r := newTestRouter(s)

	// Instant action feeds through the gateway and reports the ack.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeding", bytes.NewBufferString(`{"action":"Instant"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("instant status=%d, body=%s", w.Code, w.Body.String())
	}
	if gw.feedCalls != 1 {
		t.Fatalf("feed calls = %d, want 1", gw.feedCalls)
	}
	var resp struct {
		Status string `json:"status"`
		Ack    string `json:"ack"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusFed || resp.Ack != "Feeding Done!" {
		t.Fatalf("instant response = %+v", resp)
	}

	// Schedule action forwards the params with the feed description.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/feeding",
		bytes.NewBufferString(`{"action":"Schedule","workingTime":"18:30","freq":"Everyday"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("schedule status=%d, body=%s", w.Code, w.Body.String())
	}
	if sch.lastParams.Description != models.DescFeedOn || sch.lastParams.WorkingTime != "18:30" || sch.lastParams.Frequency != models.FreqEveryday {
		t.Fatalf("schedule params = %+v", sch.lastParams)
	}

	// Unknown action is a client error.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/feeding", bytes.NewBufferString(`{"action":"Later"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action status=%d", w.Code)
	}
}

func TestFeedingHandlers_InstantFailure(t *testing.T) {
	gw := &mockGateway{feedErr: errors.New("response timeout")}
	s := &service.Service{Gateway: gw, Schedules: &mockSchedules{}, Feedings: &mockFeedings{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeding", bytes.NewBufferString(`{"action":"Instant"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed instant status=%d, body=%s", w.Code, w.Body.String())
	}
}

func TestFeedingHandlers_GetLatest(t *testing.T) {
	feed := models.FeedEvent{ID: 2, Data: "Feeding Done!"}
	s := &service.Service{Feedings: &mockFeedings{feed: feed}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeding", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("latest status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.FeedEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != feed.ID || got.Data != feed.Data {
		t.Fatalf("latest = %+v", got)
	}

	// Empty history answers 404.
	s = &service.Service{Feedings: &mockFeedings{err: repository.ErrNoFeedings}}
	r = newTestRouter(s)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/feeding", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty latest status=%d", w.Code)
	}
}
