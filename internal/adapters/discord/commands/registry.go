package commands

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const (
	CmdChannelLock        = "channel_lock"
	CmdChannelUnlock      = "channel_unlock"
	CmdChannelNuke        = "channel_nuke"
	CmdUserMute           = "user_mute"
	CmdUserUnmute         = "user_unmute"
	CmdUserBan            = "user_ban"
	CmdUserUnban          = "user_unban"
	CmdUserKick           = "user_kick"
	CmdWhitelistedMembers = "whitelisted_members"
	CmdAddWhitelisted     = "add_whitelisted"
	CmdRemoveWhitelisted  = "remove_whitelisted"
)

const (
	optMember   = "member"
	optDuration = "mute_duration"
	optReason   = "reason"
	optUserID   = "user_id"
)

func GetApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CmdChannelLock,
			Description: "Lock the current channel",
		},
		{
			Name:        CmdChannelUnlock,
			Description: "Unlock the current channel",
		},
		{
			Name:        CmdChannelNuke,
			Description: "Recreate the current channel without its history",
		},
		{
			Name:        CmdUserMute,
			Description: "Time out a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(optMember, "The member to mute"),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        optDuration,
					Description: "Duration of the mute in minutes",
					Required:    true,
				},
			},
		},
		{
			Name:        CmdUserUnmute,
			Description: "Remove a member's timeout",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(optMember, "The member to unmute"),
			},
		},
		{
			Name:        CmdUserBan,
			Description: "Ban a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(optMember, "The member to ban"),
				stringOption(optReason, "Reason for the ban"),
			},
		},
		{
			Name:        CmdUserUnban,
			Description: "Lift a ban by user ID",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(optUserID, "ID of the banned user"),
			},
		},
		{
			Name:        CmdUserKick,
			Description: "Kick a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(optMember, "The member to kick"),
			},
		},
		{
			Name:        CmdWhitelistedMembers,
			Description: "List the members allowed to use moderation commands",
		},
		{
			Name:        CmdAddWhitelisted,
			Description: "Allow a user to use moderation commands",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(optUserID, "ID of the user to whitelist"),
			},
		},
		{
			Name:        CmdRemoveWhitelisted,
			Description: "Revoke a user's access to moderation commands",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(optUserID, "ID of the user to remove"),
			},
		},
	}
}

func stringOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func userOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) []*discordgo.ApplicationCommand {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		result, err := session.ApplicationCommandCreate(userID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered[i] = result
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(userID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
			continue
		}
		slog.Info("Removed command", "name", cmd.Name, "guild", guildID)
	}
}
