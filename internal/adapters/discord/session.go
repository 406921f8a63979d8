package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Intents is all the bot needs: interactions arrive regardless, and the
// guild intent keeps channel state current.
const Intents = discordgo.IntentsGuilds

func NewSession(token string) (*discordgo.Session, error) {
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	discord.Identify.Intents = Intents

	return discord, nil
}
