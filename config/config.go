package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// fallbackOffset is used when the configured timezone is missing from the
// host's tz database: a fixed UTC+5 (the feed's locale) keeps the engine
// running instead of failing startup.
const fallbackOffset = 5 * 60 * 60

type Config struct {
	TelegramToken string
	ChannelID     int64

	// Feed source: ICS export URL, or a CalDAV account when CalDAVURL is set.
	ICSURL             string
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string

	CheckInterval time.Duration // poll interval
	AlertLead     time.Duration // how long before start the alert fires
	Lookback      time.Duration // expansion window behind "now"
	Lookahead     time.Duration // expansion window ahead of "now"

	Timezone       *time.Location
	EventPhotoPath string
	MentionsPath   string
	DedupRetention time.Duration

	// Optional fixed-time channel reminders, "HH:MM" in Timezone.
	// Empty disables the reminder.
	MorningTime string
	EveningTime string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	channelID, err := strconv.ParseInt(os.Getenv("CHANNEL_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHANNEL_ID is required and must be a number")
	}

	icsURL := os.Getenv("ICS_URL")
	caldavURL := os.Getenv("CALDAV_URL")
	if icsURL == "" && caldavURL == "" {
		return nil, fmt.Errorf("ICS_URL or CALDAV_URL is required")
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Almaty"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, falling back to UTC+05:00", tzName)
		tz = time.FixedZone("UTC+5", fallbackOffset)
	}

	photoPath := os.Getenv("EVENT_PHOTO_PATH")
	if photoPath == "" {
		photoPath = "event.jpg"
	}

	alertLead := envMinutes("NOTIFY_MINUTES", 40)
	lookahead := envMinutes("LOOKAHEAD_MINUTES", 10)
	if lookahead < alertLead {
		// A due occurrence must sit inside the expansion window.
		lookahead = alertLead
	}

	return &Config{
		TelegramToken:      token,
		ChannelID:          channelID,
		ICSURL:             icsURL,
		CalDAVURL:          caldavURL,
		CalDAVUsername:     os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:     os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendarPath: os.Getenv("CALDAV_CALENDAR_PATH"),
		CheckInterval:      envSeconds("CHECK_INTERVAL", 60),
		AlertLead:          alertLead,
		Lookback:           envMinutes("LOOKBACK_MINUTES", 10),
		Lookahead:          lookahead,
		Timezone:           tz,
		EventPhotoPath:     photoPath,
		MentionsPath:       os.Getenv("MENTIONS_PATH"),
		DedupRetention:     envHours("DEDUP_RETENTION_HOURS", 24),
		MorningTime:        os.Getenv("MORNING_TIME"),
		EveningTime:        os.Getenv("EVENING_TIME"),
	}, nil
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}

func envMinutes(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Minute
}

func envHours(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Hour
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, os.Getenv(key), def)
	}
	return def
}
