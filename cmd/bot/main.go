package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruxxl/meetbot/config"
	"github.com/ruxxl/meetbot/internal/bot"
	caldavsrc "github.com/ruxxl/meetbot/internal/clients/caldav"
	"github.com/ruxxl/meetbot/internal/dedup"
	"github.com/ruxxl/meetbot/internal/feed"
	"github.com/ruxxl/meetbot/internal/mentions"
	"github.com/ruxxl/meetbot/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	normalizer := feed.NewNormalizer(cfg.Timezone, cfg.Timezone)

	// Источник календаря: CalDAV, если настроен, иначе ICS-экспорт
	var source feed.Source
	if cfg.CalDAVURL != "" {
		source, err = caldavsrc.NewSource(cfg.CalDAVURL, cfg.CalDAVUsername,
			cfg.CalDAVPassword, cfg.CalDAVCalendarPath, normalizer)
		if err != nil {
			log.Fatalf("Failed to init CalDAV source: %v", err)
		}
	} else {
		source = feed.NewHTTPSource(cfg.ICSURL, normalizer)
	}

	table, err := mentions.Load(cfg.MentionsPath)
	if err != nil {
		log.Fatalf("Failed to load mentions table: %v", err)
	}

	store := dedup.NewStore(cfg.DedupRetention)

	// Инициализация бота
	tgBot, err := bot.New(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	sched := scheduler.New(cfg, source, table, store)
	sched.SetSender(tgBot)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	log.Println("MeetBot started")

	// Ожидание сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	log.Println("MeetBot stopped")
}
