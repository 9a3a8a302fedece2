package services

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contactbook/internal/repositories"
)

// BirthdayNotifier posts a daily digest of contacts with upcoming birthdays
// to a single configured telegram chat. It runs in the background; every
// failure is logged and the loop keeps going.
type BirthdayNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	contacts repositories.ContactRepository
	days     int
	dryRun   bool
	stop     chan struct{}
}

func NewBirthdayNotifier(botToken string, chatID int64, dryRun bool, contacts repositories.ContactRepository) (*BirthdayNotifier, error) {
	n := &BirthdayNotifier{
		chatID:   chatID,
		contacts: contacts,
		days:     7,
		dryRun:   dryRun,
		stop:     make(chan struct{}),
	}
	if dryRun {
		return n, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	n.bot = bot
	return n, nil
}

// Start launches the daily loop. One digest goes out immediately.
func (n *BirthdayNotifier) Start() {
	go func() {
		if err := n.SendDigest(); err != nil {
			log.Printf("[tg][digest] %v", err)
		}
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := n.SendDigest(); err != nil {
					log.Printf("[tg][digest] %v", err)
				}
			case <-n.stop:
				return
			}
		}
	}()
}

func (n *BirthdayNotifier) Stop() {
	close(n.stop)
}

func (n *BirthdayNotifier) SendDigest() error {
	entries, err := n.contacts.UpcomingBirthdaysAll(n.days)
	if err != nil {
		return fmt.Errorf("load upcoming birthdays: %w", err)
	}
	if len(entries) == 0 {
		log.Printf("[tg][digest] nothing upcoming in the next %d days", n.days)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Birthdays in the next %d days</b>\n", n.days)
	owner := ""
	for _, e := range entries {
		if e.Owner != owner {
			owner = e.Owner
			fmt.Fprintf(&b, "\n%s:\n", html.EscapeString(owner))
		}
		fmt.Fprintf(&b, "  %s %s — %s\n",
			html.EscapeString(e.FirstName),
			html.EscapeString(e.LastName),
			e.Birthday.Format("02.01"),
		)
	}

	if n.dryRun {
		log.Printf("[tg][digest][dry-run] chatID=%d text=%q", n.chatID, b.String())
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	log.Printf("[tg][digest] sent %d entries to chatID=%d", len(entries), n.chatID)
	return nil
}
