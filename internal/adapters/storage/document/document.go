package document

import (
	"fmt"
	"strconv"
	"strings"

	"moderation-assistant/internal/core/domain"

	"github.com/disgoorg/snowflake/v2"
)

// fileDocument is the on-disk shape shared by both codecs. Color and owner
// ids are kept as raw scalars because files in the wild store them either
// as numbers or as strings.
type fileDocument struct {
	Token        string
	EmbedColor   string
	FooterText   string
	FooterIcon   string
	DotEmoji     string
	SuccessEmoji string
	LoadingEmoji string
	WarningEmoji string
	OwnerIDs     []string

	// Unknown holds the members the bot does not model, in the codec's own
	// representation. Save writes them back unchanged.
	Unknown any
}

func (f *fileDocument) toDomain() (*domain.Document, error) {
	color, err := parseColor(f.EmbedColor)
	if err != nil {
		return nil, err
	}

	whitelist := make([]snowflake.ID, 0, len(f.OwnerIDs))
	seen := make(map[snowflake.ID]struct{}, len(f.OwnerIDs))
	for _, raw := range f.OwnerIDs {
		id, err := snowflake.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("ownerid entry %q is not an integer", raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		whitelist = append(whitelist, id)
	}

	return &domain.Document{
		Token:      f.Token,
		EmbedColor: color,
		FooterText: f.FooterText,
		FooterIcon: f.FooterIcon,
		Glyphs: domain.Glyphs{
			Dot:     f.DotEmoji,
			Success: f.SuccessEmoji,
			Loading: f.LoadingEmoji,
			Warning: f.WarningEmoji,
		},
		Whitelist: whitelist,
	}, nil
}

func fromDomain(doc *domain.Document) *fileDocument {
	ids := make([]string, len(doc.Whitelist))
	for i, id := range doc.Whitelist {
		ids[i] = id.String()
	}

	return &fileDocument{
		Token:        doc.Token,
		EmbedColor:   strconv.Itoa(doc.EmbedColor),
		FooterText:   doc.FooterText,
		FooterIcon:   doc.FooterIcon,
		DotEmoji:     doc.Glyphs.Dot,
		SuccessEmoji: doc.Glyphs.Success,
		LoadingEmoji: doc.Glyphs.Loading,
		WarningEmoji: doc.Glyphs.Warning,
		OwnerIDs:     ids,
	}
}

// parseColor accepts decimal, 0x-prefixed hex and #-prefixed hex.
func parseColor(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	base := 10
	switch {
	case strings.HasPrefix(raw, "#"):
		raw, base = raw[1:], 16
	case strings.HasPrefix(strings.ToLower(raw), "0x"):
		raw, base = raw[2:], 16
	}

	v, err := strconv.ParseUint(raw, base, 24)
	if err != nil {
		return 0, fmt.Errorf("embedcol %q is not a color", raw)
	}
	return int(v), nil
}
