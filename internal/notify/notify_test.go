package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu       sync.Mutex
	snap     store.Snapshot
	enabled  bool
	daily    bool
	snapErr  error
	snapshot int
}

func (f *fakeSource) Snapshot() (store.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot++
	return f.snap, f.snapErr
}

func (f *fakeSource) NotificationsEnabled() (bool, error) { return f.enabled, nil }
func (f *fakeSource) DailyCheck() (bool, error)           { return f.daily, nil }

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func fixedNow(d time.Time) func() time.Time {
	return func() time.Time { return d.Add(9 * time.Hour) }
}

func dueSnapshot() store.Snapshot {
	return store.Snapshot{
		Plants: garden.Catalog(),
		Events: []garden.WateringEvent{
			{ID: "1", PlantID: "cactus", Date: garden.NewDay(2024, 1, 1)},
			{ID: "2", PlantID: "cyclamen", Date: garden.NewDay(2024, 1, 31)},
			{ID: "3", PlantID: "kalanchoe", Date: garden.NewDay(2024, 2, 8)},
		},
	}
}

// ============================================================
// DuePlants / BuildReminder
// ============================================================

func TestDuePlants(t *testing.T) {
	snap := dueSnapshot()
	due := DuePlants(snap.Plants, snap.Events, garden.NewDay(2024, 2, 10))

	// cactus overdue, cyclamen due today, kalanchoe ok, others untracked.
	require.Len(t, due, 2)
	assert.Equal(t, "cyclamen", due[0].ID)
	assert.Equal(t, "cactus", due[1].ID)
}

func TestBuildReminder(t *testing.T) {
	_, ok := BuildReminder(nil)
	assert.False(t, ok)

	a, _ := garden.BuiltinByID("cactus")
	b, _ := garden.BuiltinByID("cyclamen")
	msg, ok := BuildReminder([]garden.Plant{a, b})
	require.True(t, ok)
	assert.Equal(t, "Time to Water Your Plants!", msg.Title)
	assert.Equal(t, "Don't forget to water: Cactus, Cyclamen", msg.Body)
	assert.Len(t, msg.Plants, 2)
}

// ============================================================
// Reminder.Check
// ============================================================

func TestCheckSendsOncePerDay(t *testing.T) {
	src := &fakeSource{snap: dueSnapshot(), enabled: true}
	snd := &fakeSender{}
	r := NewReminder(src, snd, time.Hour, nil)
	r.now = fixedNow(garden.NewDay(2024, 2, 10))

	res, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Len(t, res.Due, 2)

	res, err = r.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, "already reminded today", res.Skipped)
	assert.Equal(t, 1, snd.count())

	r.now = fixedNow(garden.NewDay(2024, 2, 11))
	res, err = r.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 2, snd.count())
}

func TestCheckDisabled(t *testing.T) {
	src := &fakeSource{snap: dueSnapshot(), enabled: false}
	snd := &fakeSender{}
	r := NewReminder(src, snd, time.Hour, nil)

	res, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "notifications disabled", res.Skipped)
	assert.Zero(t, snd.count())
	assert.Zero(t, src.snapshot, "snapshot should not be read when disabled")
}

func TestCheckNothingDue(t *testing.T) {
	src := &fakeSource{snap: store.Snapshot{Plants: garden.Catalog()}, enabled: true}
	snd := &fakeSender{}
	r := NewReminder(src, snd, time.Hour, nil)

	res, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "nothing due", res.Skipped)
	assert.Zero(t, snd.count())
}

func TestCheckErrors(t *testing.T) {
	boom := errors.New("boom")

	r := NewReminder(&fakeSource{enabled: true, snapErr: boom}, &fakeSender{}, time.Hour, nil)
	_, err := r.Check(context.Background())
	assert.ErrorIs(t, err, boom)

	snd := &fakeSender{err: boom}
	r = NewReminder(&fakeSource{snap: dueSnapshot(), enabled: true}, snd, time.Hour, nil)
	r.now = fixedNow(garden.NewDay(2024, 2, 10))
	_, err = r.Check(context.Background())
	assert.ErrorIs(t, err, boom)

	// A failed send does not count as today's reminder.
	snd.mu.Lock()
	snd.err = nil
	snd.mu.Unlock()
	res, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Sent)
}

// ============================================================
// Reminder.Run
// ============================================================

func TestRunChecksImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{snap: dueSnapshot(), enabled: true, daily: true}
	snd := &fakeSender{}
	r := NewReminder(src, snd, 5*time.Millisecond, nil)
	r.now = fixedNow(garden.NewDay(2024, 2, 10))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return snd.count() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.snapshot >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	// Still one reminder: later ticks hit the same day.
	assert.Equal(t, 1, snd.count())
}

func TestRunSkipsTicksWhenDailyCheckOff(t *testing.T) {
	src := &fakeSource{snap: dueSnapshot(), enabled: true, daily: false}
	r := NewReminder(src, &fakeSender{}, 2*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 1, src.snapshot)
}

func TestRunRejectsZeroInterval(t *testing.T) {
	r := NewReminder(&fakeSource{}, &fakeSender{}, 0, nil)
	assert.Error(t, r.Run(context.Background()))
}

// ============================================================
// Senders
// ============================================================

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, s.Send(context.Background(), Message{Title: reminderTitle, Body: "Don't forget to water: Cactus"}))
	assert.Contains(t, buf.String(), "Cactus")
	assert.Equal(t, "log", s.Name())
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(nil, time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "log", s.Name())

	s, err = NewSender([]string{"logger://"}, time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "shoutrrr", s.Name())
	assert.NoError(t, s.Send(context.Background(), Message{Title: reminderTitle, Body: "test"}))

	_, err = NewSender([]string{"nosuchservice://x"}, time.Second, nil)
	assert.Error(t, err)

	_, err = NewShoutrrrSender(nil, time.Second)
	assert.Error(t, err)
}

func TestShoutrrrSenderCanceledContext(t *testing.T) {
	s, err := NewShoutrrrSender([]string{"logger://"}, time.Second)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{Body: "x"}), context.Canceled)
}
