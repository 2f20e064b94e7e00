// Package dialogue implements the multi-step conversation that collects
// a countdown's message link, target time and template. Each in-progress
// conversation is an explicit state value keyed by the chat it happens
// in; /cancel discards it with no side effect.
package dialogue

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"telecountdown/internal/i18n"
	"telecountdown/internal/parser"
	"telecountdown/internal/render"
	"telecountdown/internal/store"
)

// Countdowns is what the dialogue needs from the countdown manager.
type Countdowns interface {
	Create(c store.Countdown) error
	List(owner int64) ([]store.Countdown, error)
	Stop(owner int64, id string) error
}

type step int

const (
	stepLink step = iota
	stepTime
	stepTemplate
)

// conversation holds the typed slots collected so far.
type conversation struct {
	step   step
	ref    parser.MessageRef
	target time.Time
}

// Handler routes incoming chat messages through the conversation state
// machine and returns the reply to send back.
type Handler struct {
	countdowns Countdowns
	calendar   string
	loc        *time.Location
	lang       string

	mu       sync.Mutex
	sessions map[int64]*conversation
}

func New(c Countdowns, calendar string, loc *time.Location, lang string) *Handler {
	return &Handler{
		countdowns: c,
		calendar:   calendar,
		loc:        loc,
		lang:       lang,
		sessions:   map[int64]*conversation{},
	}
}

// HandleMessage processes one text message from chatID and returns the
// reply text. Commands take priority over an in-progress conversation.
func (h *Handler) HandleMessage(chatID int64, text string) string {
	text = strings.TrimSpace(text)

	switch cmd, rest := splitCommand(text); cmd {
	case "/start":
		return fmt.Sprintf(h.t("start_instructions"), strings.Join(render.Tokens, ", "))
	case "/cancel":
		h.drop(chatID)
		return h.t("cancelled")
	case "/add_countdown":
		h.set(chatID, &conversation{step: stepLink})
		return h.t("ask_link")
	case "/list":
		return h.list(chatID)
	case "/stop":
		return h.stop(chatID, rest)
	}

	conv := h.get(chatID)
	if conv == nil {
		return h.t("unknown")
	}

	switch conv.step {
	case stepLink:
		ref, err := parser.ParseMessageLink(text)
		if err != nil {
			return h.t("bad_link")
		}
		conv.ref = ref
		conv.step = stepTime
		return h.t("ask_time")

	case stepTime:
		target, err := parser.ParseTargetTime(text, h.calendar, h.loc)
		if err != nil {
			return h.t("bad_time")
		}
		conv.target = target
		conv.step = stepTemplate
		return fmt.Sprintf(h.t("ask_template"), h.tokenList())

	case stepTemplate:
		return h.finish(chatID, conv, text)
	}
	return h.t("unknown")
}

// finish validates the template and hands the completed countdown to the
// manager. Validation failures repeat the template step.
func (h *Handler) finish(chatID int64, conv *conversation, template string) string {
	if missing := parser.MissingPlaceholders(template); len(missing) > 0 {
		labeled := make([]string, len(missing))
		for i, tok := range missing {
			labeled[i] = fmt.Sprintf("%s (%s)", tok, i18n.TokenLabel(h.lang, tok))
		}
		return fmt.Sprintf(h.t("missing_placeholders"), strings.Join(labeled, ", "))
	}

	err := h.countdowns.Create(store.Countdown{
		ID:          conv.ref.Link,
		ChatID:      conv.ref.ChatID,
		MessageID:   conv.ref.MessageID,
		Target:      conv.target.Unix(),
		Template:    template,
		OwnerChatID: chatID,
	})
	if err != nil {
		log.Warn().Err(err).Int64("chat", chatID).Msg("countdown creation failed")
		return h.t("bad_template")
	}

	h.drop(chatID)
	return h.t("created")
}

func (h *Handler) list(chatID int64) string {
	items, err := h.countdowns.List(chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("failed to list countdowns")
		return h.t("list_empty")
	}
	if len(items) == 0 {
		return h.t("list_empty")
	}
	var b strings.Builder
	b.WriteString(h.t("list_header"))
	for _, c := range items {
		b.WriteString("\n")
		b.WriteString(c.ID)
	}
	return b.String()
}

func (h *Handler) stop(chatID int64, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return h.t("stop_usage")
	}
	err := h.countdowns.Stop(chatID, link)
	if errors.Is(err, store.ErrNotFound) {
		return h.t("stop_not_found")
	}
	if err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("failed to stop countdown")
		return h.t("stop_not_found")
	}
	return h.t("stopped")
}

func (h *Handler) tokenList() string {
	return strings.Join(render.Tokens, ", ")
}

func (h *Handler) t(key string) string { return i18n.T(h.lang, key) }

func (h *Handler) get(chatID int64) *conversation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[chatID]
}

func (h *Handler) set(chatID int64, c *conversation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[chatID] = c
}

func (h *Handler) drop(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, chatID)
}

// splitCommand separates "/cmd arg" into its command (with any @botname
// suffix stripped) and the remainder. Non-commands return an empty cmd.
func splitCommand(text string) (cmd, rest string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd = text
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmd, rest = text[:i], strings.TrimSpace(text[i+1:])
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, rest
}
