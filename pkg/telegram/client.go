// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package telegram implements the channelbot gateway and update intake on
// top of the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	tele "gopkg.in/telebot.v4"

	"github.com/aiku/channel-publisher/pkg/channelbot"
	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

const parseModeHTML = "HTML"

// rawCaller is the subset of *tele.Bot the client needs.
type rawCaller interface {
	Raw(method string, payload any) ([]byte, error)
}

// Client sends Bot API requests on behalf of the dispatcher.
type Client struct {
	bot rawCaller
	log zerolog.Logger
}

var _ channelbot.Gateway = (*Client)(nil)

// NewClient wraps a telebot bot.
func NewClient(bot *tele.Bot, log zerolog.Logger) *Client {
	return &Client{
		bot: bot,
		log: log.With().Str("component", "tg_client").Logger(),
	}
}

// APIError is a request the Bot API did not answer with ok=true.
type APIError struct {
	Method      string
	Code        int
	Description string
	// Payload is the raw response body.
	Payload string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %s (%d)", e.Method, e.Description, e.Code)
}

// RawResponse returns the response body for logging.
func (e *APIError) RawResponse() string {
	return e.Payload
}

type replyParameters struct {
	MessageID                int  `json:"message_id"`
	AllowSendingWithoutReply bool `json:"allow_sending_without_reply"`
}

type linkPreviewOptions struct {
	IsDisabled bool `json:"is_disabled"`
}

type copyTextButton struct {
	Text string `json:"text"`
}

type inlineButton struct {
	Text         string          `json:"text"`
	URL          string          `json:"url,omitempty"`
	CallbackData string          `json:"callback_data,omitempty"`
	CopyText     *copyTextButton `json:"copy_text,omitempty"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID             any                 `json:"chat_id"`
	Text               string              `json:"text"`
	ParseMode          string              `json:"parse_mode"`
	ReplyParameters    *replyParameters    `json:"reply_parameters,omitempty"`
	LinkPreviewOptions *linkPreviewOptions `json:"link_preview_options,omitempty"`
	ReplyMarkup        *inlineKeyboard     `json:"reply_markup,omitempty"`
}

type sendPhotoRequest struct {
	ChatID          any              `json:"chat_id"`
	Photo           string           `json:"photo"`
	Caption         string           `json:"caption,omitempty"`
	ParseMode       string           `json:"parse_mode,omitempty"`
	ReplyParameters *replyParameters `json:"reply_parameters,omitempty"`
	ReplyMarkup     *inlineKeyboard  `json:"reply_markup,omitempty"`
}

type copyMessageRequest struct {
	ChatID      any             `json:"chat_id"`
	FromChatID  any             `json:"from_chat_id"`
	MessageID   int             `json:"message_id"`
	ReplyMarkup *inlineKeyboard `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

// chatID sends numeric targets as numbers and usernames as strings.
func chatID(to channelbot.Target) any {
	if id, err := strconv.ParseInt(string(to), 10, 64); err == nil {
		return id
	}
	return string(to)
}

// keyboard lays out menu rows, then one row per link button, then the copy
// button. It returns nil when there is nothing to show.
func keyboard(opts *channelbot.SendOptions) *inlineKeyboard {
	if opts == nil {
		return nil
	}
	var rows [][]inlineButton
	for _, menuRow := range opts.Menu {
		row := make([]inlineButton, 0, len(menuRow))
		for _, btn := range menuRow {
			row = append(row, inlineButton{Text: btn.Label, CallbackData: btn.Data})
		}
		rows = append(rows, row)
	}
	for _, btn := range opts.Buttons {
		rows = append(rows, []inlineButton{{Text: btn.Label, URL: btn.URL}})
	}
	if opts.CopyText != "" {
		rows = append(rows, []inlineButton{{
			Text:     channelbot.CopyButtonLabel,
			CopyText: &copyTextButton{Text: htmlfmt.TruncateCopyText(opts.CopyText)},
		}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &inlineKeyboard{InlineKeyboard: rows}
}

func replyTo(opts *channelbot.SendOptions) *replyParameters {
	if opts == nil || opts.ReplyTo == 0 {
		return nil
	}
	return &replyParameters{MessageID: opts.ReplyTo, AllowSendingWithoutReply: true}
}

// call performs a Bot API request and returns the result object. Only a
// JSON body with ok=true counts as success; anything else, including proxy
// error pages that telebot lets through, is an *APIError.
func (c *Client) call(ctx context.Context, method string, payload any) (gjson.Result, error) {
	if err := ctx.Err(); err != nil {
		return gjson.Result{}, err
	}
	data, err := c.bot.Raw(method, payload)
	if len(data) == 0 && err != nil {
		return gjson.Result{}, fmt.Errorf("failed to call %s: %w", method, err)
	}
	resp := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !resp.Get("ok").Bool() {
		apiErr := &APIError{
			Method:      method,
			Code:        int(resp.Get("error_code").Int()),
			Description: resp.Get("description").String(),
			Payload:     string(data),
		}
		if apiErr.Description == "" {
			apiErr.Description = "unexpected response"
			if err != nil {
				apiErr.Description = err.Error()
			}
		}
		return gjson.Result{}, apiErr
	}
	c.log.Trace().Str("method", method).RawJSON("response", data).Msg("Bot API call")
	return resp.Get("result"), nil
}

func messageRef(to channelbot.Target, result gjson.Result) channelbot.MessageRef {
	return channelbot.MessageRef{
		ChatID:    to,
		MessageID: int(result.Get("message_id").Int()),
	}
}

// SendMarkup sends an HTML message.
func (c *Client) SendMarkup(ctx context.Context, to channelbot.Target, markup string, opts *channelbot.SendOptions) (channelbot.MessageRef, error) {
	req := &sendMessageRequest{
		ChatID:          chatID(to),
		Text:            markup,
		ParseMode:       parseModeHTML,
		ReplyParameters: replyTo(opts),
		ReplyMarkup:     keyboard(opts),
	}
	if opts != nil && opts.DisablePreview {
		req.LinkPreviewOptions = &linkPreviewOptions{IsDisabled: true}
	}
	result, err := c.call(ctx, "sendMessage", req)
	if err != nil {
		return channelbot.MessageRef{}, err
	}
	return messageRef(to, result), nil
}

// SendPhoto sends a photo by URL or file id with an HTML caption.
func (c *Client) SendPhoto(ctx context.Context, to channelbot.Target, photo, caption string, opts *channelbot.SendOptions) (channelbot.MessageRef, error) {
	req := &sendPhotoRequest{
		ChatID:          chatID(to),
		Photo:           photo,
		Caption:         caption,
		ReplyParameters: replyTo(opts),
		ReplyMarkup:     keyboard(opts),
	}
	if caption != "" {
		req.ParseMode = parseModeHTML
	}
	result, err := c.call(ctx, "sendPhoto", req)
	if err != nil {
		return channelbot.MessageRef{}, err
	}
	return messageRef(to, result), nil
}

// CopyMessage copies a message without the forwarded-from header.
func (c *Client) CopyMessage(ctx context.Context, to, from channelbot.Target, messageID int, opts *channelbot.SendOptions) (channelbot.MessageRef, error) {
	result, err := c.call(ctx, "copyMessage", &copyMessageRequest{
		ChatID:      chatID(to),
		FromChatID:  chatID(from),
		MessageID:   messageID,
		ReplyMarkup: keyboard(opts),
	})
	if err != nil {
		return channelbot.MessageRef{}, err
	}
	return messageRef(to, result), nil
}

// AnswerCallback acknowledges a button press, optionally with a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, notice string) error {
	_, err := c.call(ctx, "answerCallbackQuery", &answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            notice,
	})
	return err
}
