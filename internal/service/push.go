package service

import (
	"context"
	"fmt"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/repository"

	"github.com/go-resty/resty/v2"
)

// PushConfig holds the FCM legacy HTTP endpoint settings.
type PushConfig struct {
	Endpoint  string // default https://fcm.googleapis.com/fcm/send
	ServerKey string
}

const defaultPushEndpoint = "https://fcm.googleapis.com/fcm/send"

// fcmMessage is the legacy FCM request body for one token. The client app
// renders title/body itself, so everything rides in the data payload.
type fcmMessage struct {
	To   string            `json:"to"`
	Data map[string]string `json:"data"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// FCMNotifier sends push alerts to every registered device token. Send
// failures are logged per token and never fatal; notification delivery is
// best-effort.
type FCMNotifier struct {
	client *resty.Client
	tokens repository.TokenRepo
	log    *logger.Logger
}

func NewFCMNotifier(cfg PushConfig, tokens repository.TokenRepo, log *logger.Logger) *FCMNotifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultPushEndpoint
	}

	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "key="+cfg.ServerKey)

	return &FCMNotifier{
		client: client,
		tokens: tokens,
		log:    log,
	}
}

// SendAlert pushes {title, body, color} to every registered token.
func (n *FCMNotifier) SendAlert(title, body, severity string) error {
	tokens, err := n.tokens.List(context.Background())
	if err != nil {
		return fmt.Errorf("load push tokens: %w", err)
	}
	if len(tokens) == 0 {
		n.log.Infow("push_skipped", "reason", "no tokens registered", "title", title)
		return nil
	}

	sent := 0
	for _, token := range tokens {
		msg := fcmMessage{
			To: token,
			Data: map[string]string{
				"title": title,
				"body":  body,
				"color": severity,
			},
		}

		var result fcmResponse
		resp, err := n.client.R().
			SetBody(msg).
			SetResult(&result).
			Post("")
		if err != nil {
			n.log.Errorw("push_send_failed", "err", err)
			continue
		}
		if resp.IsError() || result.Failure > 0 {
			n.log.Errorw("push_rejected", "status", resp.StatusCode(), "failure", result.Failure)
			continue
		}
		sent++
	}

	n.log.Infow("push_sent", "title", title, "severity", severity, "tokens", len(tokens), "delivered", sent)
	return nil
}
