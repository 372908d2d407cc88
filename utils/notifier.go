package utils

import (
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// NotifyEvent posts a platform event to the configured outbound webhook URL.
// Best-effort: failures are logged, never surfaced to the request path.
// Callers fire it with `go utils.NotifyEvent(...)`.
func NotifyEvent(event string, data map[string]interface{}) {
	url := config.AppConfig.EventWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":     event,
			"data":      data,
			"timestamp": time.Now().Unix(),
		}).
		Post(url)

	if err != nil {
		log.Printf("Error sending %s notification: %v", event, err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("Event notification %s rejected, response code: %d", event, resp.StatusCode())
	}
}
