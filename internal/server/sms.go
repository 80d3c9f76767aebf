package server

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// smsMessage is the subset of the carrier's form-encoded webhook we read.
type smsMessage struct {
	From string `form:"From"`
	To   string `form:"To"`
	Body string `form:"Body"`
}

// handleSMSWebhook acknowledges inbound texts. Messages are logged only; turning
// them into requests is not wired up.
func (s *Service) handleSMSWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	var msg smsMessage
	if err := decoder.Decode(&msg, r.PostForm); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"from":        maskPhone(msg.From),
		"to":          msg.To,
		"body_length": len(msg.Body),
	})
	entry.Info("received sms")
	entry.WithField("body", msg.Body).Debug("sms body")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook received."))
}

// maskPhone keeps the last four digits of a sender number.
func maskPhone(phone string) string {
	const visible = 4
	if len(phone) <= visible {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-visible) + phone[len(phone)-visible:]
}
