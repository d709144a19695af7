package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

type CommandsTestSuite struct {
	suite.Suite
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsTestSuite))
}

func (s *CommandsTestSuite) TestCommands() {
	s.NotEmpty(Commands)

	commandNames := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range Commands {
		s.NotEmpty(cmd.Name, "Command name should not be empty")
		s.NotEmpty(cmd.Description, "Command description should not be empty")

		s.NotContains(commandNames, cmd.Name, "Command names should be unique")
		commandNames[cmd.Name] = cmd
	}

	for _, required := range []string{"blackjack", "bjstats", "bjleave"} {
		s.Contains(commandNames, required, "Required command %s should exist", required)
	}
}

func (s *CommandsTestSuite) TestBlackjackRequiresPositiveBet() {
	var blackjackCmd *discordgo.ApplicationCommand
	for _, cmd := range Commands {
		if cmd.Name == "blackjack" {
			blackjackCmd = cmd
		}
	}
	s.Require().NotNil(blackjackCmd)
	s.Require().Len(blackjackCmd.Options, 1)

	bet := blackjackCmd.Options[0]
	s.Equal("bet", bet.Name)
	s.Equal(discordgo.ApplicationCommandOptionInteger, bet.Type)
	s.True(bet.Required)
	s.Require().NotNil(bet.MinValue)
	s.Equal(1.0, *bet.MinValue)
}
