package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/mqtt"
	"aquarium_control/internal/repository"
)

// Device command keywords.
const (
	cmdFeed = "Feed"
)

// GatewayService publishes device commands and blocks on the correlated
// acknowledgement. The mutex makes publish+await+reset one critical
// section: the bridge supports a single outstanding request, so concurrent
// callers (HTTP handlers, scheduler) serialize here instead of consuming
// each other's responses.
type GatewayService struct {
	mu sync.Mutex

	transport Transport
	corr      *mqtt.Correlator
	feeds     repository.FeedRepo
	lights    repository.LightRepo
	log       *logger.Logger

	awaitTimeout time.Duration
}

func NewGatewayService(transport Transport, corr *mqtt.Correlator, feeds repository.FeedRepo, lights repository.LightRepo, log *logger.Logger) *GatewayService {
	return &GatewayService{
		transport:    transport,
		corr:         corr,
		feeds:        feeds,
		lights:       lights,
		log:          log,
		awaitTimeout: mqtt.DefaultAwaitTimeout,
	}
}

// FeedInstant publishes the feed command and waits for the device's
// acknowledgement, which is persisted as a feeding event. The ack text is
// returned. Timeouts and transport failures come back as errors; the
// correlator is always left clear for the next command.
func (g *GatewayService) FeedInstant(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ack, err := g.sendAndAwait(cmdFeed)
	if err != nil {
		return "", fmt.Errorf("feed command: %w", err)
	}

	if _, err := g.feeds.Insert(ctx, models.FeedEvent{Data: ack}); err != nil {
		g.log.Errorw("feed_event_store_failed", "err", err)
	}
	g.publishStatusLocked(ctx)

	return ack, nil
}

// LightInstant publishes a combined SWITCH/COLOR command and waits for the
// acknowledgement. Persisting the resulting light event is the caller's
// responsibility.
func (g *GatewayService) LightInstant(ctx context.Context, switchState, color string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.sendAndAwait(switchState + "/" + color); err != nil {
		return fmt.Errorf("light command: %w", err)
	}
	g.publishStatusLocked(ctx)
	return nil
}

// PublishStatus pushes the latest feed/light snapshot to the device.
func (g *GatewayService) PublishStatus(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.publishStatusLocked(ctx)
}

// PublishQuality pushes the severity and per-metric deviation notices to
// the device display channel.
func (g *GatewayService) PublishQuality(ctx context.Context, eval string, notices []models.Deviation) error {
	if err := g.transport.Connect(); err != nil {
		return err
	}

	// Wire format: a list of single-pair {metric: severity} objects.
	noticeList := make([]map[string]string, 0, len(notices))
	for _, d := range notices {
		noticeList = append(noticeList, map[string]string{d.Metric: d.Severity})
	}

	payload, err := json.Marshal(map[string]any{
		"eval":   eval,
		"notice": noticeList,
	})
	if err != nil {
		return err
	}
	return g.transport.Publish(g.transport.Topic(mqtt.TopicQuality), payload)
}

// PublishTankHeight forwards a new tank height to the device after a
// preferences update.
func (g *GatewayService) PublishTankHeight(height float64) error {
	if err := g.transport.Connect(); err != nil {
		return err
	}
	value := strconv.FormatFloat(height, 'f', -1, 64)
	return g.transport.Publish(mqtt.TopicTankHeight, []byte(value))
}

// sendAndAwait is the single-outstanding-request critical section body:
// ensure connection, arm the correlator, publish, block for the ack, clear.
// Callers must hold g.mu.
func (g *GatewayService) sendAndAwait(command string) (string, error) {
	if err := g.transport.Connect(); err != nil {
		return "", err
	}

	if err := g.corr.Arm(); err != nil {
		return "", err
	}
	defer g.corr.Reset()

	topic := g.transport.Topic(mqtt.TopicCommand)
	if err := g.transport.Publish(topic, []byte(command)); err != nil {
		return "", err
	}
	g.log.Infow("command_published", "topic", topic, "command", command)

	ack, err := g.corr.Await(g.awaitTimeout)
	if err != nil {
		return "", err
	}
	g.log.Infow("command_acknowledged", "command", command, "ack", ack)
	return ack, nil
}

// publishStatusLocked publishes the latest snapshot, tolerating empty
// tables (zero feed time, light OFF in the default color).
func (g *GatewayService) publishStatusLocked(ctx context.Context) error {
	snapshot, err := g.snapshot(ctx)
	if err != nil {
		g.log.Errorw("status_snapshot_failed", "err", err)
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := g.transport.Publish(g.transport.Topic(mqtt.TopicStatus), payload); err != nil {
		g.log.Errorw("status_publish_failed", "err", err)
		return err
	}
	return nil
}

func (g *GatewayService) snapshot(ctx context.Context) (models.StatusSnapshot, error) {
	snapshot := models.StatusSnapshot{
		Light: models.LightOff,
		Color: models.DefaultLightColor,
	}

	feed, err := g.feeds.Latest(ctx)
	switch {
	case err == nil:
		snapshot.Feed = float64(feed.Timestamp.Unix())
	case !errors.Is(err, repository.ErrNoFeedings):
		return models.StatusSnapshot{}, err
	}

	light, err := g.lights.Latest(ctx)
	switch {
	case err == nil:
		snapshot.Light = light.Status
		snapshot.Color = light.Color
	case !errors.Is(err, repository.ErrNoLights):
		return models.StatusSnapshot{}, err
	}

	return snapshot, nil
}
