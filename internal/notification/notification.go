package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kestrelbank/kestrel/internal/request"
	"github.com/sirupsen/logrus"

	"github.com/kestrelbank/kestrel/config"
)

// SlackNotification posts an error report to the configured Slack webhook.
func SlackNotification(err error) error {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Error From Kestrel",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%v"
					}
				]
			}
		]
	}`, err.Error(), time.Now().Format(time.RFC822)))

	conf, confErr := config.Fetch()
	if confErr != nil {
		return confErr
	}
	if conf.Notification.Slack.WebhookUrl == "" {
		return nil
	}

	payload, marshalErr := request.ToJsonReq(&data)
	if marshalErr != nil {
		return marshalErr
	}

	req, reqErr := http.NewRequest("POST", conf.Notification.Slack.WebhookUrl, payload)
	if reqErr != nil {
		return reqErr
	}

	var response map[string]interface{}
	_, callErr := request.Call(req, &response)
	if callErr != nil {
		return callErr
	}
	return nil
}

// NotifyError reports a systemic failure. The error is always logged;
// Slack delivery happens in the background and never blocks the caller.
func NotifyError(systemError error) {
	logrus.Error(systemError)
	go func() {
		if err := SlackNotification(systemError); err != nil {
			log.Println("notification error", err)
		}
	}()
}
