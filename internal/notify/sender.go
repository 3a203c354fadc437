package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"slices"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// ShoutrrrSender delivers reminders to every configured shoutrrr URL.
type ShoutrrrSender struct {
	urls   []string
	sender *router.ServiceRouter
}

// NewShoutrrrSender validates urls and builds one router for all of them.
func NewShoutrrrSender(urls []string, timeout time.Duration) (*ShoutrrrSender, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one notification URL is required")
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create shoutrrr sender: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrSender{urls: slices.Clone(urls), sender: sender}, nil
}

func (s *ShoutrrrSender) Name() string { return "shoutrrr" }

func (s *ShoutrrrSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := stypes.Params{}
	if msg.Title != "" {
		params.SetTitle(msg.Title)
	}
	// Send returns one entry per service; nil entries are successes.
	var errs []error
	for _, err := range s.sender.Send(msg.Body, &params) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSender writes reminders to the log. It is used when no notification
// URL is configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogSender{log: logger}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info(msg.Title, "body", msg.Body, "count", len(msg.Plants))
	return nil
}

// NewSender picks a ShoutrrrSender when urls are configured and a LogSender
// otherwise.
func NewSender(urls []string, timeout time.Duration, logger *slog.Logger) (Sender, error) {
	if len(urls) == 0 {
		return NewLogSender(logger), nil
	}
	s, err := NewShoutrrrSender(urls, timeout)
	if err != nil {
		return nil, err
	}
	return s, nil
}
