// Copyright 2024-2026 Aiku AI

package telegram

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	tele "gopkg.in/telebot.v4"
)

const testToken = "123456:test-token"

// rawResponse is a canned non-API answer, such as a proxy error page.
type rawResponse struct {
	status int
	body   string
}

// apiCall is one request received by fakeBotAPI.
type apiCall struct {
	Method string
	Body   gjson.Result
}

// fakeBotAPI is an httptest server speaking the Bot API request format.
type fakeBotAPI struct {
	Server *httptest.Server

	mu     sync.Mutex
	calls  []apiCall
	failOn map[string]string
	rawOn  map[string]rawResponse
	nextID int
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{failOn: make(map[string]string), rawOn: make(map[string]rawResponse), nextID: 100}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(f.Server.Close)
	return f
}

// Fail makes method answer ok=false with description.
func (f *fakeBotAPI) Fail(method, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[method] = description
}

// FailRaw makes method answer with status and a verbatim body.
func (f *fakeBotAPI) FailRaw(method string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawOn[method] = rawResponse{status: status, body: body}
}

func (f *fakeBotAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeBotAPI) handler(w http.ResponseWriter, r *http.Request) {
	prefix := "/bot" + testToken + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, prefix)
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Body: gjson.ParseBytes(body)})
	description, fail := f.failOn[method]
	raw, rawFail := f.rawOn[method]
	f.nextID++
	id := f.nextID
	f.mu.Unlock()

	if rawFail {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(raw.status)
		_, _ = io.WriteString(w, raw.body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"`+description+`"}`)
		return
	}
	switch method {
	case "answerCallbackQuery":
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	case "copyMessage":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":`+strconv.Itoa(id)+`}}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":`+strconv.Itoa(id)+`,"chat":{"id":1}}}`)
	}
}

func newTestBot(t *testing.T, api *fakeBotAPI) *tele.Bot {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{
		URL:         api.Server.URL,
		Token:       testToken,
		Offline:     true,
		Synchronous: true,
		Client:      api.Server.Client(),
	})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return bot
}

func newTestClient(t *testing.T) (*Client, *fakeBotAPI) {
	t.Helper()
	api := newFakeBotAPI(t)
	return NewClient(newTestBot(t, api), zerolog.Nop()), api
}
