package domain

import (
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Glyphs are the decoration strings prefixed to card descriptions.
type Glyphs struct {
	Dot     string
	Success string
	Loading string
	Warning string
}

// Document is the persisted configuration: credentials, display settings
// and the whitelist of callers allowed to run moderation commands.
type Document struct {
	Token      string
	EmbedColor int
	FooterText string
	FooterIcon string
	Glyphs     Glyphs
	Whitelist  []snowflake.ID
}

// IsWhitelisted reports whether id is in the whitelist.
func (d *Document) IsWhitelisted(id snowflake.ID) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.Whitelist, id)
}

// AddToWhitelist appends id, keeping the whitelist free of duplicates.
func (d *Document) AddToWhitelist(id snowflake.ID) error {
	if d.IsWhitelisted(id) {
		return ErrAlreadyWhitelisted
	}
	d.Whitelist = append(d.Whitelist, id)
	return nil
}

// RemoveFromWhitelist drops id while preserving the order of the rest.
func (d *Document) RemoveFromWhitelist(id snowflake.ID) error {
	idx := slices.Index(d.Whitelist, id)
	if idx < 0 {
		return ErrNotWhitelisted
	}
	d.Whitelist = slices.Delete(d.Whitelist, idx, idx+1)
	return nil
}

// Variant picks the glyph a card description starts with.
type Variant int

const (
	VariantInfo Variant = iota
	VariantSuccess
	VariantWarning
)

type Card struct {
	Title       string
	Description string
	Color       int
	FooterText  string
	FooterIcon  string
}

// Action identifies where a command was run and by whom.
type Action struct {
	GuildID   string
	ChannelID string
	ActorID   string
}

type Channel struct {
	ID       string
	GuildID  string
	Name     string
	Position int
}

// ChannelAccess is the state the default role's send and thread
// permissions are put in on a channel.
type ChannelAccess int

const (
	AccessInherited ChannelAccess = iota
	AccessLocked
)

type Ban struct {
	UserID string
	Reason string
}

type AuditEntry struct {
	ID        string
	Action    string
	GuildID   string
	ChannelID string
	ActorID   string
	TargetID  string
	Reason    string
	Outcome   string
	CreatedAt time.Time
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
