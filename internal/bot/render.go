package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/blackjacktrainer/internal/discord"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/fadedpez/blackjacktrainer/pkg/services/statistics"
	"github.com/fadedpez/blackjacktrainer/pkg/services/trainer"
)

const (
	tableColor          = 0xFFD700
	leaderboardPageSize = 5
)

// tableResponse renders the session's table with the buttons that fit its
// phase. decision, when set, is graded in the embed.
func tableResponse(session *trainer.Session, decision *trainer.Decision) *discord.Response {
	state := session.State()
	return discord.NewEmbedResponse(tableEmbed(session, state, decision), tableButtons(session, state))
}

func tableEmbed(session *trainer.Session, state blackjack.GameState, decision *trainer.Decision) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack Trainer",
		Color: tableColor,
	}

	embed.Fields = append(embed.Fields, dealerField(state))

	active := session.ActiveHand()
	user := state.UserIndex()
	hands := state.Players[user].Hands
	for idx, hand := range hands {
		name := fmt.Sprintf("Your hand (Bet: $%d)", hand.Bet)
		if len(hands) > 1 {
			name = fmt.Sprintf("Hand %d (Bet: $%d)", idx+1, hand.Bet)
		}
		if idx == active {
			name = "👉 " + name
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  fmt.Sprintf("%s\nScore: %d%s", formatCards(hand.Cards), hand.Value(), resultMessage(hand)),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "📈 Count",
		Value: fmt.Sprintf("Running: %+d | True: %+.1f | Cards dealt: %d", state.RunningCount, state.TrueCount(), state.CardsDealt),
	})

	if decision != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🎓 Strategy",
			Value: feedback(*decision),
		})
	}

	decisions, mistakes := session.Score()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Chips: $%d | Decisions: %d | Mistakes: %d", state.Players[user].Chips, decisions, mistakes),
	}
	return embed
}

// dealerField hides the hole card until the dealer reveals it
func dealerField(state blackjack.GameState) *discordgo.MessageEmbedField {
	field := &discordgo.MessageEmbedField{
		Name:   "🎩 Dealer",
		Inline: true,
	}

	dealer := state.Dealer()
	switch {
	case len(dealer.Hands) == 0 || len(dealer.Hands[0].Cards) == 0:
		field.Value = "*Shuffling, waiting for a bet...*"
	case state.DealerRevealed:
		hand := dealer.Hands[0]
		status := ""
		if blackjack.IsBusted(hand.Cards) {
			status = " 💥 BUST"
		} else if blackjack.IsBlackjack(hand.Cards) {
			status = " ⭐ BLACKJACK"
		}
		field.Value = fmt.Sprintf("%s\nScore: %d%s", formatCards(hand.Cards), hand.Value(), status)
	default:
		field.Value = fmt.Sprintf("%s 🎴\nScore: ?", formatCard(state.DealerUpCard()))
	}
	return field
}

func resultMessage(hand blackjack.Hand) string {
	switch hand.Result {
	case blackjack.ResultBlackjack:
		return " ⭐ BLACKJACK!"
	case blackjack.ResultWin:
		return " 💰 WIN"
	case blackjack.ResultPush:
		return " 🤝 PUSH"
	case blackjack.ResultLose:
		return " ❌ LOSE"
	case blackjack.ResultBust:
		return " 💥 BUST"
	}
	if blackjack.IsBusted(hand.Cards) {
		return " 💥 BUST"
	}
	if hand.Doubled {
		return " ⏫ DOUBLED"
	}
	return ""
}

func feedback(d trainer.Decision) string {
	if d.Correct() {
		return fmt.Sprintf("✅ **%s** is the basic strategy play", d.Action.Name())
	}
	return fmt.Sprintf("❌ You played **%s**, basic strategy says **%s**", d.Action.Name(), d.Recommended.Name())
}

// tableButtons offers the moves while a decision is pending and a new deal
// once the round is settled
func tableButtons(session *trainer.Session, state blackjack.GameState) []discordgo.MessageComponent {
	owner := session.PlayerID

	if state.Phase != blackjack.PhasePlayerTurn {
		bet := lastBet(session)
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("Deal again ($%d)", bet),
						Style:    discordgo.SuccessButton,
						CustomID: fmt.Sprintf("%s:%s:%d", buttonDeal, owner, bet),
						Disabled: bet <= 0 || bet > state.Players[state.UserIndex()].Chips,
						Emoji:    &discordgo.ComponentEmoji{Name: "🃏"},
					},
				},
			},
		}
	}

	canDouble, canSplit := session.Options()
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: buttonHit + ":" + owner,
				},
				discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: buttonStand + ":" + owner,
				},
				discordgo.Button{
					Label:    "Double",
					Style:    discordgo.SuccessButton,
					CustomID: buttonDouble + ":" + owner,
					Disabled: !canDouble,
				},
				discordgo.Button{
					Label:    "Split",
					Style:    discordgo.SuccessButton,
					CustomID: buttonSplit + ":" + owner,
					Disabled: !canSplit,
				},
				discordgo.Button{
					Label:    "Advice",
					Style:    discordgo.SecondaryButton,
					CustomID: buttonAdvice + ":" + owner,
					Emoji:    &discordgo.ComponentEmoji{Name: "💡"},
				},
			},
		},
	}
}

// lastBet is the opening bet of the current round, before any double or split
func lastBet(session *trainer.Session) int64 {
	history := session.History()
	if len(history) == 0 {
		return 0
	}
	first := history[0]
	user := first.UserIndex()
	if user < 0 || len(first.Players[user].Hands) == 0 {
		return 0
	}
	return first.Players[user].Hands[0].Bet
}

func statsEmbed(stats *entities.PlayerStatistics) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📊 Trainer Statistics",
		Color: tableColor,
	}

	if stats.HandsPlayed == 0 {
		embed.Description = fmt.Sprintf("<@%s> has not played a hand yet.", stats.PlayerID)
		return embed
	}

	embed.Description = fmt.Sprintf("<@%s>", stats.PlayerID)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Record",
			Value:  fmt.Sprintf("%dW-%dL-%dP | %d BJ | Win Rate: %.1f%%", stats.Wins, stats.Losses, stats.Pushes, stats.Blackjacks, stats.WinRate()),
			Inline: false,
		},
		{
			Name:   "Money",
			Value:  fmt.Sprintf("Total Bet: $%d | Winnings: $%d | Net: %+d", stats.TotalBet, stats.TotalWinnings, stats.NetProfit()),
			Inline: false,
		},
		{
			Name:   "Strategy",
			Value:  fmt.Sprintf("Accuracy: %.1f%% (%d mistakes in %d decisions)", stats.StrategyAccuracy(), stats.Mistakes, stats.Decisions),
			Inline: false,
		},
		{
			Name:   "Play",
			Value:  fmt.Sprintf("%d rounds | %d hands | %d Busts | %d Splits | %d DD", stats.RoundsPlayed, stats.HandsPlayed, stats.Busts, stats.Splits, stats.DoubleDowns),
			Inline: false,
		},
	}
	return embed
}

func leaderboardEmbed(leaderboard *statistics.BlackjackLeaderboard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "🏆 Blackjack Leaderboard",
		Color:  tableColor,
		Footer: &discordgo.MessageEmbedFooter{Text: "👑 = #1 Net Profit | 🏆 = Most Hands Played"},
	}

	if leaderboard.TotalPlayers == 0 {
		embed.Description = "Nobody has played yet."
		return embed
	}

	embed.Description = fmt.Sprintf("Showing page %d of %d (%d total players)",
		leaderboard.CurrentPage, leaderboard.TotalPages, leaderboard.TotalPlayers)

	for _, player := range leaderboard.Players {
		rankEmoji := fmt.Sprintf("%d. ", player.Rank)
		switch player.Rank {
		case 1:
			rankEmoji = "👑 "
		case 2:
			rankEmoji = "🥈 "
		case 3:
			rankEmoji = "🥉 "
		}

		indicators := ""
		if player.IsTopPlayer {
			indicators = " 🏆"
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s<@%s>%s", rankEmoji, player.PlayerID, indicators),
			Value: fmt.Sprintf("**Net:** %+d | **Record:** %dW-%dL-%dP | **Win Rate:** %.1f%% | **Accuracy:** %.1f%%",
				player.NetProfit(), player.Wins, player.Losses, player.Pushes, player.WinRate, player.Accuracy),
		})
	}
	return embed
}

func leaderboardButtons(leaderboard *statistics.BlackjackLeaderboard) []discordgo.MessageComponent {
	if leaderboard.TotalPages <= 1 {
		return nil
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%d", buttonLeaderboard, leaderboard.CurrentPage-1),
					Disabled: leaderboard.CurrentPage <= 1,
					Emoji:    &discordgo.ComponentEmoji{Name: "⬅️"},
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%d", buttonLeaderboard, leaderboard.CurrentPage+1),
					Disabled: leaderboard.CurrentPage >= leaderboard.TotalPages,
					Emoji:    &discordgo.ComponentEmoji{Name: "➡️"},
				},
			},
		},
	}
}

func formatCards(cards []*entities.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = formatCard(card)
	}
	return strings.Join(formatted, " ")
}

func formatCard(card *entities.Card) string {
	if card == nil {
		return "🎴"
	}
	return "`" + card.String() + "`"
}
