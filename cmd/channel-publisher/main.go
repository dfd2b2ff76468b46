// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Command channel-publisher is a single-operator Telegram bot that formats
// the operator's messages and publishes them to a channel. Posts can
// optionally be mirrored to a Mattermost channel.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.mau.fi/util/exzerolog"
	tele "gopkg.in/telebot.v4"

	"github.com/aiku/channel-publisher/pkg/channelbot"
	"github.com/aiku/channel-publisher/pkg/telegram"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, envFile string
	var showVersion, printExample bool

	flagSet := pflag.NewFlagSet("channel-publisher", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file; missing keys fall back to defaults")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.BoolVarP(&printExample, "generate-config", "g", false, "print the example config and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("channel-publisher %s (commit %s, built %s)\n", Tag, Commit, BuildTime)
		return nil
	}
	if printExample {
		fmt.Print(channelbot.ExampleConfig)
		return nil
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg, err := channelbot.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	exzerolog.SetupDefaults(&log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	pollTimeout := time.Duration(cfg.Telegram.PollTimeout) * time.Second
	bot, err := tele.NewBot(tele.Settings{
		URL:   cfg.Telegram.APIURL,
		Token: cfg.Telegram.BotToken,
		Poller: &tele.LongPoller{
			Timeout:        pollTimeout,
			AllowedUpdates: []string{"message", "callback_query"},
		},
		Synchronous: true,
		Client:      &http.Client{Timeout: pollTimeout + 30*time.Second},
		OnError: func(err error, _ tele.Context) {
			log.Error().Err(err).Msg("Telegram update failed")
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	log.Info().
		Str("version", Tag).
		Str("bot", bot.Me.Username).
		Str("channel", cfg.Telegram.ChannelID).
		Msg("Starting channel publisher")

	dispatcher := channelbot.NewDispatcher(telegram.NewClient(bot, log), cfg.Channel(), cfg.Telegram.OwnerID, log)
	if cfg.Mattermost.Enabled() {
		dispatcher.Mirror = channelbot.NewMattermostMirror(cfg.Mattermost, nil, log)
		log.Info().Str("server_url", cfg.Mattermost.ServerURL).Msg("Mattermost mirror enabled")
	}
	telegram.Register(ctx, bot, dispatcher, log)

	health := channelbot.NewHealthServer(cfg.HealthAddr(), log)
	health.Start()

	go bot.Start()
	<-ctx.Done()
	log.Info().Msg("Shutting down")
	bot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = health.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Health server did not stop cleanly")
	}
	return nil
}

func newLogger(cfg channelbot.LoggingConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.MinLevel != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.MinLevel))
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("invalid logging.min_level %q: %w", cfg.MinLevel, err)
		}
		level = parsed
	}
	var log zerolog.Logger
	switch cfg.Format {
	case "json":
		log = zerolog.New(os.Stdout)
	case "", "pretty":
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime})
	default:
		return zerolog.Logger{}, fmt.Errorf("invalid logging.format %q", cfg.Format)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}
