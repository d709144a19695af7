package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/blackjacktrainer/internal/config"
	"github.com/fadedpez/blackjacktrainer/internal/discord"
	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/services/statistics"
	"github.com/fadedpez/blackjacktrainer/pkg/services/trainer"
)

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config     *config.Config
	session    discord.SessionHandler
	commands   []*discordgo.ApplicationCommand
	trainer    *trainer.Manager
	stats      *statistics.Service
	logger     *logging.Logger
	shutdownWg sync.WaitGroup
}

// New creates a bot that seats Discord users at the trainer and registers
// its interaction handler on session
func New(cfg *config.Config, session discord.SessionHandler, manager *trainer.Manager, stats *statistics.Service, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default
	}

	bot := &Bot{
		config:   cfg,
		session:  session,
		commands: make([]*discordgo.ApplicationCommand, 0),
		trainer:  manager,
		stats:    stats,
		logger:   logger,
	}
	bot.registerHandlers()
	return bot
}

func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteractionCreate)
}

// Start initializes the bot and connects to Discord
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Bot started with %d commands", len(b.commands))
	return nil
}

// Shutdown disconnects from Discord once in-flight interactions finish.
// Open trainer sessions are left to the caller.
func (b *Bot) Shutdown(ctx context.Context) {
	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("Error cleaning up commands: %v", err)
		}
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("Error closing Discord session: %v", err)
	}

	done := make(chan struct{})
	go func() {
		b.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Shutdown deadline passed with interactions still running")
	}
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	b.handleInteraction(b.session, i)
}
