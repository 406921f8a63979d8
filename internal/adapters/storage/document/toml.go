package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
)

type tomlDocument struct {
	Token        string `toml:"token"`
	EmbedColor   any    `toml:"embedcol"`
	FooterText   string `toml:"footer_text"`
	FooterIcon   string `toml:"footer_icon"`
	DotEmoji     string `toml:"dot_emoji"`
	SuccessEmoji string `toml:"success_emoji"`
	LoadingEmoji string `toml:"loading_emoji"`
	WarningEmoji string `toml:"warning_emoji"`
	OwnerIDs     []any  `toml:"ownerid"`
}

type tomlCodec struct{}

func (tomlCodec) decode(data []byte) (*fileDocument, error) {
	var td tomlDocument
	md, err := toml.Decode(string(data), &td)
	if err != nil {
		return nil, err
	}

	unknown, err := tomlUnknown(data, md)
	if err != nil {
		return nil, err
	}

	color, err := tomlScalar(td.EmbedColor)
	if err != nil {
		return nil, fmt.Errorf("embedcol: %w", err)
	}

	ids := make([]string, len(td.OwnerIDs))
	for i, v := range td.OwnerIDs {
		if ids[i], err = tomlScalar(v); err != nil {
			return nil, fmt.Errorf("ownerid[%d]: %w", i, err)
		}
	}

	return &fileDocument{
		Token:        td.Token,
		EmbedColor:   color,
		FooterText:   td.FooterText,
		FooterIcon:   td.FooterIcon,
		DotEmoji:     td.DotEmoji,
		SuccessEmoji: td.SuccessEmoji,
		LoadingEmoji: td.LoadingEmoji,
		WarningEmoji: td.WarningEmoji,
		OwnerIDs:     ids,
		Unknown:      unknown,
	}, nil
}

func (tomlCodec) encode(fd *fileDocument) ([]byte, error) {
	color, err := parseColor(fd.EmbedColor)
	if err != nil {
		return nil, err
	}

	ids := make([]any, len(fd.OwnerIDs))
	for i, id := range fd.OwnerIDs {
		ids[i] = id
	}

	td := tomlDocument{
		Token:        fd.Token,
		EmbedColor:   int64(color),
		FooterText:   fd.FooterText,
		FooterIcon:   fd.FooterIcon,
		DotEmoji:     fd.DotEmoji,
		SuccessEmoji: fd.SuccessEmoji,
		LoadingEmoji: fd.LoadingEmoji,
		WarningEmoji: fd.WarningEmoji,
		OwnerIDs:     ids,
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(td); err != nil {
		return nil, err
	}

	// The known keys are all plain values, so the unknown tables can follow
	// them in a second pass.
	if unknown, ok := fd.Unknown.(map[string]any); ok && len(unknown) > 0 {
		if err := toml.NewEncoder(&buf).Encode(unknown); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// tomlUnknown collects the top-level keys that did not decode into
// tomlDocument.
func tomlUnknown(data []byte, md toml.MetaData) (map[string]any, error) {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil, nil
	}

	var all map[string]any
	if err := toml.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	unknown := make(map[string]any)
	for _, key := range undecoded {
		if v, ok := all[key[0]]; ok {
			unknown[key[0]] = v
		}
	}
	return unknown, nil
}

func tomlScalar(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("expected string or integer, got %T", v)
	}
}
