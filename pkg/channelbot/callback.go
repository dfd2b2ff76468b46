// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"fmt"
	"strings"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

// CallbackKind is the namespace of a callback payload.
type CallbackKind int

const (
	CallbackStyle CallbackKind = iota + 1
	CallbackDraft
)

// DraftAction is the value of a draft callback.
type DraftAction string

const (
	DraftStart   DraftAction = "start"
	DraftPublish DraftAction = "publish"
	DraftCancel  DraftAction = "cancel"
	DraftPreview DraftAction = "preview"
)

const (
	styleNamespace = "style"
	draftNamespace = "draft"
)

// Callback is a decoded inline keyboard payload.
type Callback struct {
	Kind   CallbackKind
	Style  htmlfmt.Style
	Action DraftAction
}

// DecodeCallback parses "namespace:value". Payloads outside the style and
// draft namespaces, or with values those namespaces do not define, return
// ErrUnknownCallback.
func DecodeCallback(data string) (Callback, error) {
	namespace, value, ok := strings.Cut(data, ":")
	if !ok {
		return Callback{}, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
	}
	switch namespace {
	case styleNamespace:
		if style, ok := htmlfmt.Lookup(value); ok {
			return Callback{Kind: CallbackStyle, Style: style}, nil
		}
	case draftNamespace:
		switch action := DraftAction(value); action {
		case DraftStart, DraftPublish, DraftCancel, DraftPreview:
			return Callback{Kind: CallbackDraft, Action: action}, nil
		}
	}
	return Callback{}, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
}

// StyleCallbackData encodes a style selection payload.
func StyleCallbackData(style htmlfmt.Style) string {
	return styleNamespace + ":" + style.String()
}

// DraftCallbackData encodes a draft action payload.
func DraftCallbackData(action DraftAction) string {
	return draftNamespace + ":" + string(action)
}
