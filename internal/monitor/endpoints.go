package monitor

import (
	"strings"

	"netcheck/internal/models"
)

const (
	baselineAURL        = "https://www.google.com"
	baselineBURL        = "https://ya.ru"
	notificationURLBase = "https://api.telegram.org/bot"
)

// DefaultEndpoints returns the baseline endpoints followed by the notification
// endpoint. The notification endpoint has no URL when token is empty.
func DefaultEndpoints(token string) []models.Endpoint {
	return []models.Endpoint{
		{Name: BaselineA, URL: baselineAURL},
		{Name: BaselineB, URL: baselineBURL},
		{Name: Notification, URL: NotificationURL(token)},
	}
}

// NotificationURL builds the bot API self-check URL for token.
func NotificationURL(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	return notificationURLBase + token + "/getMe"
}
