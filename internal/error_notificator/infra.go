package error_notificator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewInfra builds the Telegram alert channel. Without ALERT_BOT_TOKEN the
// notificator degrades to plain logging so local runs need no bot.
func NewInfra() *Infra {
	token := os.Getenv("ALERT_BOT_TOKEN")
	if token == "" {
		log.Printf("[error_notificator] ALERT_BOT_TOKEN not set, alerts go to log only")
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[error_notificator] bot init failed: %v", err)
		return &Infra{}
	}

	chatID, _ := strconv.ParseInt(os.Getenv("ALERT_CHAT_ID"), 10, 64)
	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(ctx context.Context, source string, err error, details string) error {
	text := fmt.Sprintf("provider failure (%s)\n\nerror: %v\n\ndetails: %s", source, err, details)

	if i.bot == nil || i.chatID == 0 {
		log.Printf("[error_notificator] %s", text)
		return nil
	}

	msg := tgbotapi.NewMessage(i.chatID, text)
	if _, sendErr := i.bot.Send(msg); sendErr != nil {
		log.Printf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}
