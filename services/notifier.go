package services

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/koreasuan/rainmaker-api/models"
)

// Notifier posts approval-workflow events to a Slack channel. It is optional:
// without a token and channel no notifier is constructed and the workflow
// simply skips it.
type Notifier struct {
	api     *slack.Client
	channel string
}

// NewNotifier returns nil when token or channel is empty.
func NewNotifier(token, channel string) *Notifier {
	if token == "" || channel == "" {
		return nil
	}
	return &Notifier{api: slack.New(token), channel: channel}
}

// StatusChanged posts the outcome of a transition attempt. Delivery failures
// are logged and dropped; notifications never affect the workflow result.
func (n *Notifier) StatusChanged(actor models.User, rec models.CanonicalRecord, newStatus models.Status, success bool) {
	verdict := "✅"
	if !success {
		verdict = "❌"
	}
	msg := fmt.Sprintf("%s %s → %s by %s: %s",
		verdict, rec.Status, newStatus, actor.Name, rec.Title)

	_, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(msg, false))
	if err != nil {
		log.Printf("⚠️ Slack notification failed: %v", err)
	}
}
