package store

import "errors"

// RenderMode says which editable surface of the target message the
// countdown text goes into.
type RenderMode string

const (
	ModeText    RenderMode = "text"
	ModeCaption RenderMode = "caption"
)

// Countdown is one live binding between a target instant, a channel
// message and a display template. The original message link doubles as
// the record id.
type Countdown struct {
	ID          string     `json:"id"`
	ChatID      string     `json:"chat_id"`    // "-100<id>" or "@handle"
	MessageID   int        `json:"message_id"`
	Target      int64      `json:"target_timestamp"` // epoch seconds
	Template    string     `json:"template"`
	OwnerChatID int64      `json:"admin_chat_id"` // notified on failures
	RenderMode  RenderMode `json:"render_mode,omitempty"`
}

// Mode returns the effective render mode; records persisted before the
// field existed default to text.
func (c Countdown) Mode() RenderMode {
	if c.RenderMode == ModeCaption {
		return ModeCaption
	}
	return ModeText
}

// Store abstracts countdown persistence. Implementations are safe for
// use from concurrent ticks.
type Store interface {
	Close() error

	LoadAll() (map[string]Countdown, error)
	Get(id string) (Countdown, error)
	Upsert(c Countdown) error
	Delete(id string) error
}

var ErrNotFound = errors.New("not found")
