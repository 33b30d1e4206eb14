package bot

import (
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is a thin sender around the Telegram API. Command and menu handling
// live outside this engine; the scheduler only needs to push messages to
// the channel.
type Bot struct {
	api *tgbotapi.BotAPI
}

func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	return &Bot{api: api}, nil
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}

// SendAlert delivers an alert with the configured photo attached. A missing
// photo file or a failed photo upload falls back to a plain text message.
func (b *Bot) SendAlert(chatID int64, text, photoPath string) error {
	if photoPath != "" {
		if _, err := os.Stat(photoPath); err == nil {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(photoPath))
			photo.Caption = text
			photo.ParseMode = "HTML"
			_, err := b.api.Send(photo)
			if err == nil {
				return nil
			}
			log.Printf("Photo send failed, falling back to text: %v", err)
		}
	}
	return b.SendMessage(chatID, text)
}
