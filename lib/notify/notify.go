package notify

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/config"
	"wfm-shifts-connector/lib/smtp"
)

// Provider emails the on-call address when synchronization breaks: a
// failed background sync run, or a webhook batch aborted by a downstream
// failure. The scheduler UI retries aborted batches on its own, the mail
// is there so repeated aborts do not go unnoticed.
type Provider interface {
	SyncFailure(teamID string, cause error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		smtp:   smtp.Instance,
		from:   config.Conf.Smtp.User,
		sendTo: config.Conf.Smtp.NotifyTo,
	}
}

type impl struct {
	smtp   smtp.Provider
	from   string
	sendTo string
}

func (i impl) SyncFailure(teamID string, cause error) {
	if i.sendTo == "" {
		return
	}
	subject := "schedule sync failed"
	message := fmt.Sprintf("Schedule synchronization for team %v failed: %v", teamID, cause)
	if err := i.smtp.SendEMail(i.from, i.sendTo, message, subject); err != nil {
		log.WithError(err).
			WithField("team_id", teamID).
			Error("failed to send sync failure notification")
	}
}
