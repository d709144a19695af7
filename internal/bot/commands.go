package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var minimumOne = 1.0

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "blackjack",
		Description: "Deal a hand at the blackjack trainer",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: "Chips to bet on the hand",
				Required:    true,
				MinValue:    &minimumOne,
			},
		},
	},
	{
		Name:        "bjstats",
		Description: "Show blackjack trainer statistics and the leaderboard",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "player",
				Description: "Whose statistics to show, yourself if empty",
			},
		},
	},
	{
		Name:        "bjleave",
		Description: "Leave the trainer table, standing on any open hand",
	},
}

// registerCommands creates every slash command, removing stale ones first
// when running in development
func (b *Bot) registerCommands() error {
	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("Error cleaning up stale commands: %v", err)
		}
	}

	for _, cmd := range Commands {
		registered, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %q: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, registered)
	}
	return nil
}

// cleanupCommands deletes every command registered for the guild
func (b *Bot) cleanupCommands() error {
	existing, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		return fmt.Errorf("cannot list commands: %w", err)
	}

	for _, cmd := range existing {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			return fmt.Errorf("cannot delete command %q: %w", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
	return nil
}
