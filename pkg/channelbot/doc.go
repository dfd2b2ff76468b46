// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package channelbot implements a single-operator publishing assistant for
// a Telegram broadcast channel.
//
// The operator talks to the bot in a private chat, arms a style (bold,
// link, card and so on), sends text, and the bot renders it to Telegram
// HTML and publishes it to the configured channel. Posts can be sent one at
// a time (quick mode) or collected into a multi-block draft that is
// published as a single message.
//
// # Core Types
//
// [Dispatcher] is the interaction state machine. It authorizes every
// inbound update with a [Guard], reads and writes per-operator state in a
// [SessionStore] under a per-operator lock, renders with htmlfmt and
// publishes through a [Gateway].
//
// [Gateway] is the outbound Telegram contract. The production
// implementation lives in pkg/telegram; tests use an in-memory fake.
//
// [Mirror] optionally copies every accepted channel post to a Mattermost
// channel as markdown.
//
// # State
//
// Session and draft state is memory-resident and lost on restart. A session
// is armed when it has a style; it is never awaiting input without one.
// A draft only holds rendered markup and is cleared only when the gateway
// accepts the publish.
//
// # Sub-packages
//
//   - htmlfmt renders operator text into Telegram HTML.
//   - mdfmt converts Markdown posts into Telegram HTML.
//   - mattermostfmt converts Telegram HTML into Mattermost markdown.
package channelbot
