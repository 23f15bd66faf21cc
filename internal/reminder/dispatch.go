package reminder

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/notify"
	"github.com/sjoberg/arbetstid/internal/store"
	ws "github.com/sjoberg/arbetstid/internal/websocket"
)

// Dispatcher resolves the fixed message for a rule kind, pushes it to every
// registered subscription, appends a history record, and mirrors the event to
// connected foreground clients. Platform failures are logged and swallowed —
// one failed delivery must not stop future ticks.
type Dispatcher struct {
	service *notify.Service // nil when the push layer is not configured
	subs    *store.PushStore
	history *store.NotificationStore
	hub     *ws.Hub
	userID  string
	logger  *slog.Logger
}

func NewDispatcher(service *notify.Service, subs *store.PushStore, history *store.NotificationStore, hub *ws.Hub, userID string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		service: service,
		subs:    subs,
		history: history,
		hub:     hub,
		userID:  userID,
		logger:  logger,
	}
}

// Dispatch emits the notification for a rule kind. It returns an error only
// when every push delivery failed, so the caller skips the fired marker and
// the rule may retry on a later tick within the same minute.
func (d *Dispatcher) Dispatch(kind model.ReminderKind) error {
	title, body, tag := notify.MessageFor(kind)

	if d.service != nil {
		subs, err := d.subs.List()
		if err != nil {
			return fmt.Errorf("list subscriptions: %w", err)
		}

		payload := notify.Payload{
			Title: title,
			Body:  body,
			Icon:  notify.IconPath,
			Tag:   tag,
			Data:  &notify.PayloadData{Kind: kind, UserID: d.userID},
		}

		attempted, delivered := 0, 0
		for _, sub := range subs {
			attempted++
			if err := d.service.Send(&sub, payload); err != nil {
				if errors.Is(err, notify.ErrExpired) {
					if err := d.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
						d.logger.Error("delete expired subscription", "error", err)
					}
					continue
				}
				d.logger.Error("send reminder push", "kind", kind, "error", err)
				continue
			}
			delivered++
		}
		if attempted > 0 && delivered == 0 {
			return fmt.Errorf("all %d push deliveries failed", attempted)
		}
	}

	rec := model.NotificationRecord{
		ID:        uuid.NewString(),
		Message:   body,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.history.Append(rec); err != nil {
		// History is a convenience surface; the reminder itself was delivered.
		d.logger.Error("append notification history", "error", err)
	} else {
		d.hub.Broadcast(ws.NewMessage("notification", "created", rec.ID, map[string]any{
			"message": rec.Message,
		}))
	}

	return nil
}
