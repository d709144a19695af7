package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/blackjacktrainer/internal/discord"
	"github.com/fadedpez/blackjacktrainer/internal/types"
	"github.com/fadedpez/blackjacktrainer/pkg/services/trainer"
)

// Button custom IDs. Table buttons carry the owner's user ID after a colon,
// and the deal button also carries the bet.
const (
	buttonHit         = "blackjack_hit"
	buttonStand       = "blackjack_stand"
	buttonDouble      = "blackjack_double"
	buttonSplit       = "blackjack_split"
	buttonAdvice      = "blackjack_advice"
	buttonDeal        = "blackjack_deal"
	buttonLeaderboard = "bjstats_page"
)

var (
	errNotYourTable  = types.NewGameError(types.ErrInvalidAction, "this is not your table, use /blackjack to sit down")
	errRoundUnderway = types.NewGameError(types.ErrGameInProgress, "finish the hand on the table first")
	errBadButton     = types.NewGameError(types.ErrInvalidCommand, "that button is no longer valid")
)

func (b *Bot) handleInteraction(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(s, i)
	}
}

// handleSlashCommand handles all slash commands
func (b *Bot) handleSlashCommand(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "blackjack":
		b.handleBlackjack(s, i, data)
	case "bjstats":
		b.handleStats(s, i, data)
	case "bjleave":
		b.handleLeave(s, i)
	default:
		b.logger.Warn("Unknown command: %s", data.Name)
		b.respondError(s, i, types.NewGameError(types.ErrInvalidCommand, "unknown command"))
	}
}

// handleMessageComponent handles button clicks
func (b *Bot) handleMessageComponent(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")

	switch parts[0] {
	case buttonHit, buttonStand, buttonDouble, buttonSplit, buttonAdvice, buttonDeal:
		b.handleTableButton(s, i, parts)
	case buttonLeaderboard:
		b.handleLeaderboardPage(s, i, parts)
	default:
		b.logger.Warn("Unknown component interaction: %s", i.MessageComponentData().CustomID)
		b.respondError(s, i, errBadButton)
	}
}

func (b *Bot) handleBlackjack(s discord.SessionHandler, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	ctx := context.Background()
	userID := interactionUserID(i)

	var bet int64
	for _, opt := range data.Options {
		if opt.Name == "bet" {
			bet = opt.IntValue()
		}
	}

	session, created, err := b.trainer.Start(ctx, userID)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	if created {
		b.logger.Info("User %s sat down at the trainer", userID)
	}

	if _, err := session.Bet(ctx, bet); err != nil {
		b.respondError(s, i, err)
		return
	}

	b.send(s, i, discord.SendResponse, tableResponse(session, nil))
}

func (b *Bot) handleTableButton(s discord.SessionHandler, i *discordgo.InteractionCreate, parts []string) {
	ctx := context.Background()

	if len(parts) < 2 {
		b.respondError(s, i, errBadButton)
		return
	}
	if owner := parts[1]; owner != interactionUserID(i) {
		b.respondError(s, i, errNotYourTable)
		return
	}

	session, err := b.trainer.Get(parts[1])
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	var play func(context.Context) (trainer.Decision, error)
	switch parts[0] {
	case buttonHit:
		play = session.Hit
	case buttonStand:
		play = session.Stand
	case buttonDouble:
		play = session.Double
	case buttonSplit:
		play = session.Split
	case buttonAdvice:
		action, err := session.Advice()
		if err != nil {
			b.respondError(s, i, err)
			return
		}
		b.send(s, i, discord.SendResponse, discord.NewEphemeralResponse(
			fmt.Sprintf("💡 Basic strategy says **%s**", action.Name()), nil))
		return
	case buttonDeal:
		if len(parts) < 3 {
			b.respondError(s, i, errBadButton)
			return
		}
		bet, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			b.respondError(s, i, errBadButton)
			return
		}
		if _, err := session.Bet(ctx, bet); err != nil {
			b.respondError(s, i, err)
			return
		}
		b.send(s, i, discord.UpdateResponse, tableResponse(session, nil))
		return
	}

	decision, err := play(ctx)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.send(s, i, discord.UpdateResponse, tableResponse(session, &decision))
}

func (b *Bot) handleLeave(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	if err := b.trainer.End(context.Background(), userID); err != nil {
		b.respondError(s, i, err)
		return
	}

	b.logger.Info("User %s left the trainer", userID)
	b.send(s, i, discord.SendResponse, discord.NewEphemeralResponse("👋 You left the table. Your chips are in your wallet.", nil))
}

func (b *Bot) handleStats(s discord.SessionHandler, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	ctx := context.Background()

	playerID := interactionUserID(i)
	for _, opt := range data.Options {
		if opt.Name == "player" {
			playerID = opt.UserValue(nil).ID
		}
	}

	stats, err := b.stats.GetPlayerStatistics(ctx, playerID)
	if err != nil {
		b.respondError(s, i, types.WrapError(types.ErrDatabaseError, "could not load statistics", err))
		return
	}
	leaderboard, err := b.stats.GetBlackjackLeaderboard(ctx, 1, leaderboardPageSize)
	if err != nil {
		b.respondError(s, i, types.WrapError(types.ErrDatabaseError, "could not load the leaderboard", err))
		return
	}

	b.send(s, i, discord.SendResponse, &discord.Response{
		Embeds:     []*discordgo.MessageEmbed{statsEmbed(stats), leaderboardEmbed(leaderboard)},
		Components: leaderboardButtons(leaderboard),
	})
}

func (b *Bot) handleLeaderboardPage(s discord.SessionHandler, i *discordgo.InteractionCreate, parts []string) {
	if len(parts) < 2 {
		b.respondError(s, i, errBadButton)
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		b.respondError(s, i, errBadButton)
		return
	}

	leaderboard, err := b.stats.GetBlackjackLeaderboard(context.Background(), page, leaderboardPageSize)
	if err != nil {
		b.respondError(s, i, types.WrapError(types.ErrDatabaseError, "could not load the leaderboard", err))
		return
	}

	b.send(s, i, discord.UpdateResponse, discord.NewEmbedResponse(leaderboardEmbed(leaderboard), leaderboardButtons(leaderboard)))
}

// respondError tells the user what went wrong, only to them
func (b *Bot) respondError(s discord.SessionHandler, i *discordgo.InteractionCreate, err error) {
	if errors.Is(err, trainer.ErrWrongPhase) && i.Type == discordgo.InteractionApplicationCommand {
		err = errRoundUnderway
	}

	var gameErr *types.GameError
	if !types.As(err, &gameErr) {
		b.logger.Error("Interaction %s failed: %v", i.ID, err)
	}

	if sendErr := discord.SendErrorResponse(s, i, err); sendErr != nil {
		b.logger.Error("Error sending error response: %v", sendErr)
	}
}

func (b *Bot) send(s discord.SessionHandler, i *discordgo.InteractionCreate, respond func(discord.SessionHandler, *discordgo.InteractionCreate, *discord.Response) error, r *discord.Response) {
	if err := respond(s, i, r); err != nil {
		b.logger.Error("Error responding to interaction %s: %v", i.ID, err)
	}
}

// interactionUserID returns who triggered the interaction, in a guild or a DM
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
