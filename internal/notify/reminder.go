// Package notify turns the watering schedule into reminders and delivers
// them through a Sender.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

const reminderTitle = "Time to Water Your Plants!"

// Message is one reminder ready for delivery.
type Message struct {
	Title  string
	Body   string
	Plants []garden.Plant
}

// Sender delivers a reminder.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Source supplies the data a reminder check reads. *store.Store satisfies it.
type Source interface {
	Snapshot() (store.Snapshot, error)
	NotificationsEnabled() (bool, error)
	DailyCheck() (bool, error)
}

// DuePlants returns the plants that are due today or overdue on today.
func DuePlants(plants []garden.Plant, events []garden.WateringEvent, today time.Time) []garden.Plant {
	return schedule.Due(schedule.Statuses(plants, events, today))
}

// BuildReminder formats the reminder for due. It reports false when there
// is nothing to remind about.
func BuildReminder(due []garden.Plant) (Message, bool) {
	if len(due) == 0 {
		return Message{}, false
	}
	names := make([]string, len(due))
	for i, p := range due {
		names[i] = p.Name
	}
	return Message{
		Title:  reminderTitle,
		Body:   "Don't forget to water: " + strings.Join(names, ", "),
		Plants: due,
	}, true
}

// Result describes what a single check did.
type Result struct {
	Sent    bool
	Due     []garden.Plant
	Skipped string // reason when nothing was sent
}

// Reminder checks for due plants and sends at most one reminder per day.
type Reminder struct {
	src      Source
	sender   Sender
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	lastSent time.Time
}

func NewReminder(src Source, sender Sender, interval time.Duration, logger *slog.Logger) *Reminder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reminder{
		src:      src,
		sender:   sender,
		interval: interval,
		log:      logger.With("module", "notify", "sender", sender.Name()),
		now:      time.Now,
	}
}

// Check loads a fresh snapshot and sends a reminder when notifications are
// enabled, something is due, and no reminder went out earlier today.
func (r *Reminder) Check(ctx context.Context) (Result, error) {
	enabled, err := r.src.NotificationsEnabled()
	if err != nil {
		return Result{}, fmt.Errorf("read notification setting: %w", err)
	}
	if !enabled {
		return Result{Skipped: "notifications disabled"}, nil
	}

	snap, err := r.src.Snapshot()
	if err != nil {
		return Result{}, fmt.Errorf("load snapshot: %w", err)
	}
	today := garden.DayOf(r.now())
	due := DuePlants(snap.Plants, snap.Events, today)
	msg, ok := BuildReminder(due)
	if !ok {
		r.log.Debug("nothing due", "date", garden.FormatDay(today))
		return Result{Skipped: "nothing due"}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastSent.Equal(today) {
		return Result{Due: due, Skipped: "already reminded today"}, nil
	}
	if err := r.sender.Send(ctx, msg); err != nil {
		r.log.Error("reminder failed", "error", err, "due", len(due))
		return Result{Due: due}, fmt.Errorf("send reminder via %s: %w", r.sender.Name(), err)
	}
	r.lastSent = today
	r.log.Info("reminder sent", "due", len(due), "date", garden.FormatDay(today))
	return Result{Sent: true, Due: due}, nil
}

// Run checks immediately and then on every interval tick while the daily
// check preference is on. It returns when ctx is done.
func (r *Reminder) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %s", r.interval)
	}
	r.checkAndLog(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			daily, err := r.src.DailyCheck()
			if err != nil {
				r.log.Warn("read daily check setting", "error", err)
				continue
			}
			if daily {
				r.checkAndLog(ctx)
			}
		}
	}
}

func (r *Reminder) checkAndLog(ctx context.Context) {
	if _, err := r.Check(ctx); err != nil {
		r.log.Warn("reminder check", "error", err)
	}
}
