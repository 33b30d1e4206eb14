package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ruxxl/meetbot/config"
	"github.com/ruxxl/meetbot/internal/dedup"
	"github.com/ruxxl/meetbot/internal/domain"
	"github.com/ruxxl/meetbot/internal/expand"
	"github.com/ruxxl/meetbot/internal/feed"
	"github.com/ruxxl/meetbot/internal/mentions"
)

// MessageSender is the notifier contract. SendAlert attaches the configured
// photo when possible and falls back to plain text on its own.
type MessageSender interface {
	SendMessage(chatID int64, text string) error
	SendAlert(chatID int64, text, photoPath string) error
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	source   feed.Source
	mentions mentions.Table
	store    *dedup.Store
	sender   MessageSender
	now      func() time.Time
}

func New(cfg *config.Config, source feed.Source, table mentions.Table, store *dedup.Store) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		source:   source,
		mentions: table,
		store:    store,
		now:      func() time.Time { return time.Now().In(cfg.Timezone) },
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	// Проверка календаря с настроенным интервалом
	spec := fmt.Sprintf("@every %ds", int(s.cfg.CheckInterval/time.Second))
	if _, err := s.cron.AddFunc(spec, s.checkCalendar); err != nil {
		return fmt.Errorf("add calendar check: %w", err)
	}

	// Утреннее напоминание
	if s.cfg.MorningTime != "" {
		morningSpec, err := cronSpec(s.cfg.MorningTime)
		if err != nil {
			return fmt.Errorf("morning reminder: %w", err)
		}
		if _, err := s.cron.AddFunc(morningSpec, s.morningReminder); err != nil {
			return fmt.Errorf("add morning reminder: %w", err)
		}
	}

	// Вечернее напоминание
	if s.cfg.EveningTime != "" {
		eveningSpec, err := cronSpec(s.cfg.EveningTime)
		if err != nil {
			return fmt.Errorf("evening reminder: %w", err)
		}
		if _, err := s.cron.AddFunc(eveningSpec, s.eveningReminder); err != nil {
			return fmt.Errorf("add evening reminder: %w", err)
		}
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, interval: %s, lead: %s)",
		s.cfg.Timezone, s.cfg.CheckInterval, s.cfg.AlertLead)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// checkCalendar runs one fetch → expand → filter → notify cycle. A fetch
// failure skips the whole cycle; any per-event failure is logged and the
// rest of the cycle proceeds.
func (s *Scheduler) checkCalendar() {
	if s.sender == nil {
		return
	}

	now := s.now()
	win := expand.Window{
		Start: now.Add(-s.cfg.Lookback),
		End:   now.Add(s.cfg.Lookahead),
	}

	events, err := s.source.Events(context.Background(), win.Start, win.End)
	if err != nil {
		log.Printf("Calendar fetch failed, skipping cycle: %v", err)
		return
	}

	for _, ev := range events {
		occs, err := expand.Occurrences(ev, win)
		if err != nil {
			log.Printf("Error expanding %q: %v", ev.Title, err)
			continue
		}
		for _, occ := range occs {
			if err := s.notifyDue(occ, now); err != nil {
				log.Printf("Error notifying %s: %v", occ.Key(), err)
			}
		}
	}

	s.store.Sweep(now)
}

// notifyDue sends the alert for one occurrence if it is due and not yet
// announced. The dedup key is recorded only after a confirmed send: a
// failed delivery is retried next cycle while the occurrence is still due.
func (s *Scheduler) notifyDue(occ domain.Occurrence, now time.Time) error {
	if !due(occ.Start, now, s.cfg.AlertLead) {
		return nil
	}

	key := occ.Key()
	if s.store.Seen(key) {
		return nil
	}

	text := s.renderAlert(occ)
	if err := s.sender.SendAlert(s.cfg.ChannelID, text, s.cfg.EventPhotoPath); err != nil {
		return err
	}

	s.store.Record(key, occ.Start)
	log.Printf("Calendar alert sent: %s", key)
	return nil
}

// due reports whether an occurrence should be alerted at now. The interval
// is half-open: the alert fires from lead time before the start (inclusive)
// and never once the meeting has begun.
func due(start, now time.Time, lead time.Duration) bool {
	alertFrom := start.Add(-lead)
	return !now.Before(alertFrom) && now.Before(start)
}

func (s *Scheduler) renderAlert(occ domain.Occurrence) string {
	attendees := s.mentions.Resolve(occ.Event.Attendees)

	var sb strings.Builder
	sb.WriteString("📅 Встреча скоро начнется!\n")
	sb.WriteString(fmt.Sprintf("📝 Название: <b>%s</b>\n", occ.Event.Title))
	if occ.Event.AllDay {
		sb.WriteString(fmt.Sprintf("⏰ Начало: %s (весь день)\n", occ.FormatStart(s.cfg.Timezone)))
	} else {
		sb.WriteString(fmt.Sprintf("⏰ Начало: %s\n", occ.FormatStart(s.cfg.Timezone)))
	}
	sb.WriteString("👥 Участники: " + strings.Join(attendees, ", "))
	return sb.String()
}

func (s *Scheduler) morningReminder() {
	if s.sender == nil {
		return
	}

	text := "☀️ Доброе утро, коллеги!\n\n" +
		"Не забудьте отметиться в трекере.\n" +
		"Желаем классного дня и продуктивной работы! 💪"

	if err := s.sender.SendMessage(s.cfg.ChannelID, text); err != nil {
		log.Printf("Error sending morning reminder: %v", err)
	}
}

func (s *Scheduler) eveningReminder() {
	if s.sender == nil {
		return
	}

	text := "🌇 Добрый вечер, коллеги!\n\n" +
		"Не забудьте отметиться в трекере.\n" +
		"Хорошего вечера и приятного отдыха! 😎"

	if err := s.sender.SendMessage(s.cfg.ChannelID, text); err != nil {
		log.Printf("Error sending evening reminder: %v", err)
	}
}

// cronSpec converts an "HH:MM" wall-clock time to a daily cron spec.
func cronSpec(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format: %s", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour: %s", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute: %s", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
