package formatting

import (
	"moderation-assistant/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

// Renderer builds cards styled from one configuration document snapshot.
type Renderer struct {
	color      int
	footerText string
	footerIcon string
	glyphs     domain.Glyphs
}

// NewRenderer accepts a nil document and then renders unstyled cards.
func NewRenderer(doc *domain.Document) Renderer {
	if doc == nil {
		return Renderer{}
	}
	return Renderer{
		color:      doc.EmbedColor,
		footerText: doc.FooterText,
		footerIcon: doc.FooterIcon,
		glyphs:     doc.Glyphs,
	}
}

// Render prefixes description with the glyph for variant. Interpolated
// text is not escaped.
func (r Renderer) Render(title, description string, variant domain.Variant) domain.Card {
	if glyph := r.glyph(variant); glyph != "" {
		description = glyph + " " + description
	}

	return domain.Card{
		Title:       title,
		Description: description,
		Color:       r.color,
		FooterText:  r.footerText,
		FooterIcon:  r.footerIcon,
	}
}

func (r Renderer) Success(title, description string) domain.Card {
	return r.Render(title, description, domain.VariantSuccess)
}

func (r Renderer) Warning(title, description string) domain.Card {
	return r.Render(title, description, domain.VariantWarning)
}

func (r Renderer) Info(title, description string) domain.Card {
	return r.Render(title, description, domain.VariantInfo)
}

func (r Renderer) Denied() domain.Card {
	return r.Warning(TitleDenied, MsgDenied)
}

func (r Renderer) glyph(v domain.Variant) string {
	switch v {
	case domain.VariantSuccess:
		return r.glyphs.Success
	case domain.VariantWarning:
		return r.glyphs.Warning
	default:
		return r.glyphs.Dot
	}
}

func Embed(card domain.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Color:       card.Color,
	}
	if card.FooterText != "" || card.FooterIcon != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    card.FooterText,
			IconURL: card.FooterIcon,
		}
	}
	return embed
}
