package service

import (
	"context"
	"fmt"
	"time"

	"adventcalendar/internal/logger"
	"adventcalendar/internal/models"
	"adventcalendar/internal/timegate"
)

// NotificationStore remembers which level-open notifications were sent
type NotificationStore interface {
	HasSent(levelID int) (bool, error)
	RecordSent(levelID int, sentTo string) (*models.LevelNotification, error)
}

// LevelMailer sends the level-open email
type LevelMailer interface {
	SendLevelOpenEmail(ctx context.Context, toEmail, recipient string, level *models.LevelConfig) error
}

// Notifier watches the calendar and announces each dated level once, the
// first time a check runs after its unlock date.
type Notifier struct {
	cal    *models.Calendar
	gate   *timegate.Evaluator
	store  NotificationStore
	mailer LevelMailer
	to     string
	log    *logger.Logger
}

func NewNotifier(cal *models.Calendar, gate *timegate.Evaluator, store NotificationStore, mailer LevelMailer, to string, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{cal: cal, gate: gate, store: store, mailer: mailer, to: to, log: log}
}

// Check sends notifications for every level open at now that has not been
// announced. It returns the ids it announced. A failed send is retried on
// the next check.
func (n *Notifier) Check(ctx context.Context, now time.Time) ([]int, error) {
	if n.to == "" {
		return nil, nil
	}
	var sent []int
	for _, id := range n.gate.OpenLevels(now) {
		done, err := n.store.HasSent(id)
		if err != nil {
			return sent, err
		}
		if done {
			continue
		}
		level, ok := n.cal.Level(id)
		if !ok {
			continue
		}
		if err := n.mailer.SendLevelOpenEmail(ctx, n.to, n.cal.Recipient, level); err != nil {
			n.log.Warn("level open email failed", "level_id", id, "error", err)
			continue
		}
		if _, err := n.store.RecordSent(id, n.to); err != nil {
			return sent, fmt.Errorf("record notification for level %d: %w", id, err)
		}
		n.log.Info("level open notification sent", "level_id", id)
		sent = append(sent, id)
	}
	return sent, nil
}

// Run checks immediately and then every interval until ctx is cancelled
func (n *Notifier) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := n.Check(ctx, n.gate.Now()); err != nil {
			n.log.Error("time gate check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
