package notification

import (
	"errors"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/kestrelbank/kestrel/config"
)

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://hooks.slack.example.com/T000/B000",
		httpmock.NewStringResponder(200, `{"ok": true}`))

	config.MockConfig(&config.Configuration{
		Notification: config.Notification{
			Slack: config.SlackWebhook{WebhookUrl: "https://hooks.slack.example.com/T000/B000"},
		},
	})

	err := SlackNotification(errors.New("store unavailable"))
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSlackNotificationNotConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})

	err := SlackNotification(errors.New("store unavailable"))
	assert.NoError(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}
