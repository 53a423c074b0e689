//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"major-sim/api/api"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
)

// Run connects to Discord and serves commands until SIGINT or SIGTERM. On the way out auto-play is stopped and the
// session is saved
func (b *Bot) Run() error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	discord.AddHandler(b.newMessage)
	discord.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("logged in as %s, serving %d guilds", r.User.Username, len(r.Guilds))
	})

	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Println("Major Simulator bot started")
	<-ctx.Done()

	log.Println("shutting down")
	b.APIPtr.Game.StopAutoPlay()
	if _, err := b.APIPtr.Save(); err != nil && !errors.Is(err, api.ErrNoStore) {
		log.Println("failed to save session on shutdown:", err)
	}
	return nil
}

// newMessage delegates to the testable newMessageHandler
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
