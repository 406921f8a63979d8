package formatting

import (
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

const (
	TitleDenied          = "Permission Denied"
	TitleChannelLock     = "Channel Lock"
	TitleChannelUnlock   = "Channel Unlock"
	TitleNuked           = "Nuke complete"
	TitleInvalidDuration = "Invalid Duration"
	TitleMuted           = "Muted"
	TitleUnmuted         = "Unmuted"
	TitleBanned          = "Banned"
	TitleNotBanned       = "User Not Banned"
	TitleUnbanned        = "Unbanned"
	TitleKicked          = "Kicked"
	TitleWhitelistList   = "Whitelisted Members"
	TitleInvalidID       = "Invalid ID"
	TitleWhitelist       = "Whitelist"
	TitleError           = "Error"
)

const (
	MsgDenied          = "You are not authorized to use this command."
	MsgChannelLocked   = "This channel has been locked down. Only whitelisted members can send messages here."
	MsgChannelUnlocked = "This channel has been unlocked."
	MsgInvalidDuration = "The duration must be a positive number of minutes."
	MsgInvalidID       = "The provided ID is not a valid integer."
	MsgBanFailed       = "The bot does not have permissions to ban this member!"
	MsgWhitelistEmpty  = "No members are whitelisted."

	MsgLockFailed   = "There was an error locking this channel."
	MsgUnlockFailed = "There was an error unlocking this channel."
	MsgNukeFailed   = "There was an error nuking this channel."
	MsgMuteFailed   = "There was an error muting the member."
	MsgUnmuteFailed = "There was an error unmuting the member."
	MsgUnbanFailed  = "There was an error unbanning the user."
	MsgKickFailed   = "There was an error kicking the member."

	// MsgInternalError is sent as plain text when no card can be built,
	// for example because the configuration document is unreadable.
	MsgInternalError = "Something went wrong while running this command."
)

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func ChannelMention(channelID string) string {
	return "<#" + channelID + ">"
}

func MsgNuked(channelID, callerID string) string {
	return fmt.Sprintf("Channel %s has been nuked by %s.", ChannelMention(channelID), Mention(callerID))
}

func MsgMuted(userID string, minutes int64) string {
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return printer.Sprintf("%s has been muted for %d %s.", Mention(userID), minutes, unit)
}

func MsgUnmuted(userID string) string {
	return fmt.Sprintf("%s has been unmuted.", Mention(userID))
}

func MsgBanned(userID, reason string) string {
	return fmt.Sprintf("%s has been banned for the following reason: ```%s```", Mention(userID), reason)
}

func MsgNotBanned(userID string) string {
	return fmt.Sprintf("The user with ID `%s` is not currently banned.", userID)
}

func MsgUnbanned(userID string) string {
	return fmt.Sprintf("The user with ID `%s` has been unbanned.", userID)
}

func MsgKicked(userID string) string {
	return fmt.Sprintf("%s has been kicked from the guild.", Mention(userID))
}

func MsgAlreadyWhitelisted(id string) string {
	return fmt.Sprintf("User `%s` (%s) is already whitelisted.", id, Mention(id))
}

func MsgWhitelistAdded(id string) string {
	return fmt.Sprintf("Added user `%s` (%s) to the whitelist.", id, Mention(id))
}

func MsgNotWhitelisted(id string) string {
	return fmt.Sprintf("User `%s` (%s) is not whitelisted.", id, Mention(id))
}

func MsgWhitelistRemoved(id string) string {
	return fmt.Sprintf("Removed user `%s` (%s) from the whitelist.", id, Mention(id))
}

// WhitelistEntries renders one line per id with a 1-based index.
func WhitelistEntries(ids []snowflake.ID) []string {
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("> %d. `%s` (%s)", i+1, id, Mention(id.String()))
	}
	return lines
}

func MsgWhitelist(ids []snowflake.ID) string {
	if len(ids) == 0 {
		return MsgWhitelistEmpty
	}
	return "Whitelisted member list:\n" + strings.Join(WhitelistEntries(ids), "\n")
}
