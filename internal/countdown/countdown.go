// Package countdown ties the store, the scheduler and the Telegram
// client together: it creates countdowns, resumes them after a restart
// and drives the periodic edit of each bound channel message.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telecountdown/internal/i18n"
	"telecountdown/internal/parser"
	"telecountdown/internal/render"
	"telecountdown/internal/store"
	"telecountdown/internal/telegram"
)

// Messenger is the slice of the Telegram client the manager needs.
type Messenger interface {
	EditMessageText(ctx context.Context, chatID string, messageID int, text string) error
	EditMessageCaption(ctx context.Context, chatID string, messageID int, text string) error
	SendMessage(ctx context.Context, chatID string, text string) error
}

// Jobs is the slice of the scheduler the manager needs.
type Jobs interface {
	Ensure(id string, tick func(context.Context))
	Cancel(id string)
}

// Manager owns the lifecycle of every countdown.
type Manager struct {
	store    store.Store
	bot      Messenger
	jobs     Jobs
	renderer render.Renderer
	lang     string
	now      func() time.Time
	log      zerolog.Logger

	mu       sync.Mutex
	lastTick time.Time
}

func New(st store.Store, bot Messenger, jobs Jobs, lang string) *Manager {
	return &Manager{
		store: st,
		bot:   bot,
		jobs:  jobs,
		renderer: render.Renderer{
			Digits:  func(n int) string { return i18n.Digits(lang, n) },
			Expired: i18n.T(lang, "times_up"),
		},
		lang: lang,
		now:  time.Now,
		log:  log.With().Str("component", "countdown").Logger(),
	}
}

// Create validates and persists a new countdown, then starts its
// periodic task. The template must contain all four placeholder tokens
// and the owner chat is mandatory so every failure has somewhere to go.
func (m *Manager) Create(c store.Countdown) error {
	if err := parser.ValidateTemplate(c.Template); err != nil {
		return err
	}
	if c.OwnerChatID == 0 {
		return errors.New("owner chat id required")
	}
	if err := m.store.Upsert(c); err != nil {
		return fmt.Errorf("save countdown: %w", err)
	}
	m.schedule(c.ID)
	m.log.Info().Str("id", c.ID).Int64("target", c.Target).Msg("countdown created")
	return nil
}

// Resume loads every persisted countdown and starts a task for each. The
// store is the sole source of truth after a restart.
func (m *Manager) Resume() (int, error) {
	all, err := m.store.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("load countdowns: %w", err)
	}
	for id := range all {
		m.schedule(id)
	}
	m.log.Info().Int("count", len(all)).Msg("countdowns resumed")
	return len(all), nil
}

// Remove tears a countdown down: store delete plus task cancel.
func (m *Manager) Remove(id string) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}
	m.jobs.Cancel(id)
	return nil
}

// List returns the countdowns created by the given owner chat.
func (m *Manager) List(owner int64) ([]store.Countdown, error) {
	all, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}
	var res []store.Countdown
	for _, c := range all {
		if c.OwnerChatID == owner {
			res = append(res, c)
		}
	}
	return res, nil
}

// Stop removes a countdown on behalf of its owner. Countdowns belonging
// to someone else look like they do not exist.
func (m *Manager) Stop(owner int64, id string) error {
	c, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if c.OwnerChatID != owner {
		return store.ErrNotFound
	}
	return m.Remove(id)
}

// Active returns the number of persisted countdowns.
func (m *Manager) Active() int {
	all, err := m.store.LoadAll()
	if err != nil {
		return 0
	}
	return len(all)
}

// LastTick returns when any countdown last ticked.
func (m *Manager) LastTick() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTick
}

func (m *Manager) schedule(id string) {
	m.jobs.Ensure(id, func(ctx context.Context) {
		m.tick(ctx, id)
	})
}

// tick recomputes one countdown and edits its message in place.
//
// Outcomes: success while running keeps the task alive; success after
// expiry tears the countdown down; a "no text to edit" failure flips the
// record to caption mode and retries once this tick; a "not found"
// failure tears the countdown down and tells the owner; anything else is
// reported to the owner and retried naturally on the next tick.
func (m *Manager) tick(ctx context.Context, id string) {
	m.mu.Lock()
	m.lastTick = m.now()
	m.mu.Unlock()

	c, err := m.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		// a task without a record should not exist; tolerate and bail
		m.log.Debug().Str("id", id).Msg("tick for unknown countdown")
		return
	}
	if err != nil {
		m.log.Error().Err(err).Str("id", id).Msg("failed to load countdown")
		return
	}

	d, running := render.Remaining(time.Unix(c.Target, 0), m.now())
	text := m.renderer.Render(d, running, c.Template)

	err = m.edit(ctx, c, text)
	if errors.Is(err, telegram.ErrNoTextToEdit) && c.Mode() == store.ModeText {
		c.RenderMode = store.ModeCaption
		if uerr := m.store.Upsert(c); uerr != nil {
			m.log.Warn().Err(uerr).Str("id", id).Msg("failed to persist caption mode")
		}
		err = m.bot.EditMessageCaption(ctx, c.ChatID, c.MessageID, text)
	}

	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrTargetGone):
		m.log.Warn().Str("id", id).Msg("countdown message gone, removing")
		if derr := m.Remove(id); derr != nil {
			m.log.Error().Err(derr).Str("id", id).Msg("failed to remove countdown")
		}
		m.notifyOwner(ctx, c, fmt.Sprintf(i18n.T(m.lang, "gone_notify"), id))
		return
	default:
		m.log.Warn().Err(err).Str("id", id).Msg("countdown edit failed, will retry next tick")
		m.notifyOwner(ctx, c, fmt.Sprintf(i18n.T(m.lang, "edit_error_notify"), err))
		return
	}

	if !running {
		m.log.Info().Str("id", id).Msg("countdown finished")
		if derr := m.Remove(id); derr != nil {
			m.log.Error().Err(derr).Str("id", id).Msg("failed to remove finished countdown")
		}
	}
}

func (m *Manager) edit(ctx context.Context, c store.Countdown, text string) error {
	if c.Mode() == store.ModeCaption {
		return m.bot.EditMessageCaption(ctx, c.ChatID, c.MessageID, text)
	}
	return m.bot.EditMessageText(ctx, c.ChatID, c.MessageID, text)
}

func (m *Manager) notifyOwner(ctx context.Context, c store.Countdown, text string) {
	if c.OwnerChatID == 0 {
		return
	}
	owner := strconv.FormatInt(c.OwnerChatID, 10)
	if err := m.bot.SendMessage(ctx, owner, text); err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("failed to notify owner")
	}
}
