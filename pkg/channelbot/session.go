// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"slices"
	"strings"

	"go.mau.fi/util/exsync"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

// DraftMode selects how the next rendered post is handled.
type DraftMode int

const (
	// ModeQuick publishes each rendered post immediately.
	ModeQuick DraftMode = iota
	// ModeMulti appends each rendered post to the open draft.
	ModeMulti
)

func (m DraftMode) String() string {
	if m == ModeMulti {
		return "multi"
	}
	return "quick"
}

// Session is the interaction state of one operator.
type Session struct {
	// Armed is the selected style; StyleNone means nothing is armed.
	Armed htmlfmt.Style
	Mode  DraftMode
}

// AwaitingInput reports whether the next free text is rendered.
func (s Session) AwaitingInput() bool {
	return s.Armed != htmlfmt.StyleNone
}

// Draft is a multi-block post being composed.
type Draft struct {
	// Blocks holds rendered markup, never raw operator text.
	Blocks []string
	// Buttons is replaced by the latest block that carried any.
	Buttons []htmlfmt.Button
}

// BlockSeparator joins draft blocks on publish.
const BlockSeparator = "\n\n"

// Markup joins the draft blocks.
func (d *Draft) Markup() string {
	return strings.Join(d.Blocks, BlockSeparator)
}

func (d *Draft) clone() *Draft {
	return &Draft{
		Blocks:  slices.Clone(d.Blocks),
		Buttons: slices.Clone(d.Buttons),
	}
}

// SessionStore keeps sessions and drafts keyed by operator id. Callers
// serialize access per operator; the store itself is safe for concurrent
// use across operators.
type SessionStore struct {
	sessions *exsync.Map[int64, Session]
	drafts   *exsync.Map[int64, *Draft]
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: exsync.NewMap[int64, Session](),
		drafts:   exsync.NewMap[int64, *Draft](),
	}
}

// Session returns the operator's session, or the idle zero value.
func (s *SessionStore) Session(operator int64) Session {
	session, _ := s.sessions.Get(operator)
	return session
}

// Arm selects a style. The mode is multi iff a draft is open.
func (s *SessionStore) Arm(operator int64, style htmlfmt.Style) Session {
	mode := ModeQuick
	if _, ok := s.drafts.Get(operator); ok {
		mode = ModeMulti
	}
	session := Session{Armed: style, Mode: mode}
	s.sessions.Set(operator, session)
	return session
}

// Disarm clears the armed style and keeps the mode.
func (s *SessionStore) Disarm(operator int64) {
	session, ok := s.sessions.Get(operator)
	if !ok {
		return
	}
	session.Armed = htmlfmt.StyleNone
	s.sessions.Set(operator, session)
}

// Clear returns the operator to idle.
func (s *SessionStore) Clear(operator int64) {
	s.sessions.Delete(operator)
}

// Draft returns a copy of the operator's open draft.
func (s *SessionStore) Draft(operator int64) (*Draft, bool) {
	draft, ok := s.drafts.Get(operator)
	if !ok {
		return nil, false
	}
	return draft.clone(), true
}

// ReadyDraft returns a copy of the open draft if it can be published.
func (s *SessionStore) ReadyDraft(operator int64) (*Draft, error) {
	draft, ok := s.Draft(operator)
	switch {
	case !ok:
		return nil, ErrNoDraft
	case len(draft.Blocks) == 0:
		return nil, ErrEmptyDraft
	}
	return draft, nil
}

// StartDraft replaces any open draft with an empty one and disarms.
func (s *SessionStore) StartDraft(operator int64) {
	s.drafts.Set(operator, &Draft{})
	s.sessions.Set(operator, Session{Mode: ModeMulti})
}

// AppendBlock adds a rendered block to the open draft and returns its
// 1-based index. Non-empty buttons replace the draft's buttons.
func (s *SessionStore) AppendBlock(operator int64, markup string, buttons []htmlfmt.Button) (int, error) {
	draft, ok := s.drafts.Get(operator)
	if !ok {
		return 0, ErrNoDraft
	}
	draft.Blocks = append(draft.Blocks, markup)
	if len(buttons) > 0 {
		draft.Buttons = slices.Clone(buttons)
	}
	return len(draft.Blocks), nil
}

// DiscardDraft drops the open draft and returns the operator to idle.
// It is a no-op when there is nothing to discard.
func (s *SessionStore) DiscardDraft(operator int64) {
	s.drafts.Delete(operator)
	s.sessions.Delete(operator)
}
