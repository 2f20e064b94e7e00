package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telecountdown/internal/config"
	"telecountdown/internal/countdown"
	"telecountdown/internal/dialogue"
	"telecountdown/internal/scheduler"
	"telecountdown/internal/store"
	"telecountdown/internal/telegram"
	"telecountdown/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	setupLogging(cfg)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DBBackend).Msg("open store")
	}

	bot := telegram.New(cfg.BotToken)
	sched := scheduler.New(cfg.Interval, cfg.InitialDelay)
	mgr := countdown.New(st, bot, sched, cfg.Lang)

	resumed, err := mgr.Resume()
	if err != nil {
		log.Fatal().Err(err).Msg("resume countdowns")
	}
	log.Info().Int("count", resumed).Msg("resumed countdowns")

	dlg := dialogue.New(mgr, cfg.Calendar, loc, cfg.Lang)
	srv := web.New(mgr, log.Logger).Start(cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	go poll(ctx, bot, dlg, cfg.PollTimeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")

	cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("web server shutdown")
	}
	sched.Stop()
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}

// poll runs the Bot API long-poll loop and routes operator messages to the
// dialogue handler. Errors back off briefly so a broken network does not spin.
func poll(ctx context.Context, bot *telegram.Client, dlg *dialogue.Handler, timeout int) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := bot.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("get updates")
			time.Sleep(3 * time.Second)
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			msg := upd.Message
			if msg == nil || msg.Chat == nil || msg.Text == "" {
				continue
			}
			reply := dlg.HandleMessage(msg.Chat.ID, msg.Text)
			if reply == "" {
				continue
			}
			if err := bot.SendMessage(ctx, strconv.FormatInt(msg.Chat.ID, 10), reply); err != nil {
				log.Warn().Err(err).Int64("chat", msg.Chat.ID).Msg("send reply")
			}
		}
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.DBBackend {
	case "bolt":
		return store.OpenBolt(cfg.BoltPath)
	case "postgres":
		return store.OpenPostgres(context.Background(), cfg.DatabaseURL)
	default:
		return store.OpenFile(cfg.DBFile)
	}
}

func setupLogging(cfg config.Config) {
	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
