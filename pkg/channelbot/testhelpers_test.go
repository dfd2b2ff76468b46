// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package channelbot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"
)

const (
	testOperator int64  = 8486562838
	testStranger int64  = 42
	testChannel  Target = "-1001234567890"
)

// sentMessage records one gateway call.
type sentMessage struct {
	Method    string
	To        Target
	From      Target
	MessageID int
	Markup    string
	Photo     string
	Opts      SendOptions
}

// rejectError mimics a gateway error carrying the raw response.
type rejectError struct {
	raw string
}

func (e *rejectError) Error() string       { return "Bad Request: can't parse entities" }
func (e *rejectError) RawResponse() string { return e.raw }

// fakeGateway records sends and can be told to reject channel publishes.
type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentMessage
	answers  map[string]string
	nextID   int
	rejectTo map[Target]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		answers:  make(map[string]string),
		rejectTo: make(map[Target]bool),
	}
}

// RejectChannel makes every send to the channel fail until reset.
func (g *fakeGateway) RejectChannel(reject bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejectTo[testChannel] = reject
}

func (g *fakeGateway) record(msg sentMessage) (MessageRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rejectTo[msg.To] {
		return MessageRef{}, &rejectError{raw: `{"ok":false,"error_code":400}`}
	}
	g.nextID++
	g.sent = append(g.sent, msg)
	return MessageRef{ChatID: msg.To, MessageID: g.nextID}, nil
}

func optsValue(opts *SendOptions) SendOptions {
	if opts == nil {
		return SendOptions{}
	}
	return *opts
}

func (g *fakeGateway) SendMarkup(_ context.Context, to Target, markup string, opts *SendOptions) (MessageRef, error) {
	return g.record(sentMessage{Method: "sendMessage", To: to, Markup: markup, Opts: optsValue(opts)})
}

func (g *fakeGateway) SendPhoto(_ context.Context, to Target, photo, caption string, opts *SendOptions) (MessageRef, error) {
	return g.record(sentMessage{Method: "sendPhoto", To: to, Photo: photo, Markup: caption, Opts: optsValue(opts)})
}

func (g *fakeGateway) CopyMessage(_ context.Context, to, from Target, messageID int, opts *SendOptions) (MessageRef, error) {
	return g.record(sentMessage{Method: "copyMessage", To: to, From: from, MessageID: messageID, Opts: optsValue(opts)})
}

func (g *fakeGateway) AnswerCallback(_ context.Context, callbackID, notice string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.answers[callbackID] = notice
	return nil
}

func (g *fakeGateway) Sent() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := make([]sentMessage, len(g.sent))
	copy(cp, g.sent)
	return cp
}

// SentTo returns the messages delivered to one chat.
func (g *fakeGateway) SentTo(to Target) []sentMessage {
	var out []sentMessage
	for _, msg := range g.Sent() {
		if msg.To == to {
			out = append(out, msg)
		}
	}
	return out
}

// LastReply returns the markup of the last message sent to chat.
func (g *fakeGateway) LastReply(chat int64) string {
	msgs := g.SentTo(ChatTarget(chat))
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Markup
}

func (g *fakeGateway) Answer(callbackID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	notice, ok := g.answers[callbackID]
	return notice, ok
}

func (g *fakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = nil
	g.answers = make(map[string]string)
}

// recordingMirror captures mirrored posts.
type recordingMirror struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (m *recordingMirror) MirrorPost(_ context.Context, markup string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, markup)
	return m.err
}

func (m *recordingMirror) Posts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.posts...)
}

func newTestDispatcher() (*Dispatcher, *fakeGateway) {
	gw := newFakeGateway()
	return NewDispatcher(gw, testChannel, testOperator, zerolog.Nop()), gw
}

var msgCounter struct {
	sync.Mutex
	n int
}

func nextMessageID() int {
	msgCounter.Lock()
	defer msgCounter.Unlock()
	msgCounter.n++
	return msgCounter.n
}

// privateMessage builds a private-chat message from sender.
func privateMessage(sender int64, text string) *Message {
	return &Message{
		ID:      nextMessageID(),
		Sender:  Identity{SenderID: sender, ChatID: sender},
		ChatID:  sender,
		Private: true,
		Text:    text,
	}
}

func callbackFrom(sender int64, data string) *CallbackQuery {
	return &CallbackQuery{
		ID:        "cb-" + data,
		Sender:    Identity{SenderID: sender},
		ChatID:    sender,
		MessageID: 1,
		Data:      data,
	}
}

// send runs a message from the operator through d.
func send(d *Dispatcher, text string) {
	d.HandleMessage(context.Background(), privateMessage(testOperator, text))
}

// endpointCall records which API endpoints were hit during a test.
type endpointCall struct {
	Method string
	Path   string
	Body   string
}

// fakeMM is an httptest server simulating the Mattermost post API.
type fakeMM struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []endpointCall

	// FailPosts makes post creation return 500.
	FailPosts bool
}

func newFakeMM() *fakeMM {
	f := &fakeMM{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handler))
	return f
}

func (f *fakeMM) Close() {
	f.Server.Close()
}

func (f *fakeMM) SetFailPosts(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailPosts = fail
}

func (f *fakeMM) Calls() []endpointCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]endpointCall, len(f.calls))
	copy(cp, f.calls)
	return cp
}

func (f *fakeMM) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, endpointCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	fail := f.FailPosts
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v4/posts":
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "fake error"})
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") &&
			!strings.HasPrefix(r.Header.Get("Authorization"), "BEARER ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var post model.Post
		_ = json.Unmarshal(body, &post)
		post.Id = "created-post-id"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&post)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

var errMirrorDown = errors.New("mirror down")
