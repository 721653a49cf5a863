package server

import (
	"encoding/json"
	"net/http"

	tele "gopkg.in/telebot.v4"

	"schedbot/internal/logging"
)

// Webhook response statuses. The endpoint acknowledges every well-formed
// HTTP request with 200: Telegram retries non-2xx responses, and a retried
// instruction would double-book.
const (
	webhookStatusOK      = "ok"
	webhookStatusIgnored = "ignored"
)

// webhookResponse is the JSON body returned to Telegram.
type webhookResponse struct {
	Status string `json:"status"`
}

// WebhookHandler returns the handler for the Telegram webhook endpoint.
//
// Updates without message text or a chat id are acknowledged as ignored
// without invoking the pipeline. Everything else runs one full pipeline and
// sends the summary back to the requesting chat; the send is best effort
// and does not change the response.
func (s *Server) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var update tele.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			s.logger.Warn("undecodable webhook payload",
				logging.Operation("webhook"), logging.Err(err))
			s.respond(w, r, webhookStatusIgnored)
			return
		}

		msg := update.Message
		if msg == nil || msg.Text == "" || msg.Chat == nil || msg.Chat.ID == 0 {
			s.respond(w, r, webhookStatusIgnored)
			return
		}

		chatID := msg.Chat.ID
		s.logger.Info("instruction received",
			logging.Operation("webhook"), logging.ChatID(chatID))

		summary := s.pipeline.Run(r.Context(), msg.Text)

		if err := s.notifier.Send(r.Context(), chatID, summary); err != nil {
			// Best effort: the requester may miss the summary, but the
			// bookings themselves already happened.
			s.logger.Warn("failed to deliver summary",
				logging.Operation("webhook"), logging.ChatID(chatID), logging.Err(err))
		}

		s.respond(w, r, webhookStatusOK)
	})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status string) {
	s.metrics.RecordWebhookRequest(r.Context(), status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(webhookResponse{Status: status})
}
