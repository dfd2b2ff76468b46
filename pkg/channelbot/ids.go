// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Target addresses a chat: a numeric id or an @username.
type Target string

// ChatTarget creates a Target from a numeric chat id.
func ChatTarget(chatID int64) Target {
	return Target(strconv.FormatInt(chatID, 10))
}

func (t Target) String() string {
	return string(t)
}

// Command is a parsed "/name payload" message.
type Command struct {
	Name    string
	Payload string
}

var commandNameRe = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// ParseCommand splits a command message into its name and payload. The
// name is lowercased with any @botname suffix removed. The payload is
// everything after the first whitespace with line breaks kept. Text that is
// not a well-formed command returns false.
func ParseCommand(text string) (Command, bool) {
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}
	head, payload := text[1:], ""
	if idx := strings.IndexFunc(head, unicode.IsSpace); idx >= 0 {
		head, payload = head[:idx], head[idx:]
	}
	name, _, _ := strings.Cut(head, "@")
	name = strings.ToLower(name)
	if !commandNameRe.MatchString(name) {
		return Command{}, false
	}
	return Command{Name: name, Payload: strings.TrimSpace(payload)}, true
}
