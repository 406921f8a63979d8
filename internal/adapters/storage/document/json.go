package document

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type jsonDocument struct {
	Token        string           `json:"token"`
	EmbedColor   jsontext.Value   `json:"embedcol,omitempty"`
	FooterText   string           `json:"footer_text"`
	FooterIcon   string           `json:"footer_icon"`
	DotEmoji     string           `json:"dot_emoji"`
	SuccessEmoji string           `json:"success_emoji"`
	LoadingEmoji string           `json:"loading_emoji"`
	WarningEmoji string           `json:"warning_emoji"`
	OwnerIDs     []jsontext.Value `json:"ownerid"`
	Unknown      jsontext.Value   `json:",unknown"`
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte) (*fileDocument, error) {
	var jd jsonDocument
	if err := json.Unmarshal(data, &jd); err != nil {
		return nil, err
	}

	color, err := jsonScalar(jd.EmbedColor)
	if err != nil {
		return nil, fmt.Errorf("embedcol: %w", err)
	}

	ids := make([]string, len(jd.OwnerIDs))
	for i, v := range jd.OwnerIDs {
		if ids[i], err = jsonScalar(v); err != nil {
			return nil, fmt.Errorf("ownerid[%d]: %w", i, err)
		}
	}

	return &fileDocument{
		Token:        jd.Token,
		EmbedColor:   color,
		FooterText:   jd.FooterText,
		FooterIcon:   jd.FooterIcon,
		DotEmoji:     jd.DotEmoji,
		SuccessEmoji: jd.SuccessEmoji,
		LoadingEmoji: jd.LoadingEmoji,
		WarningEmoji: jd.WarningEmoji,
		OwnerIDs:     ids,
		Unknown:      jd.Unknown,
	}, nil
}

// encode writes owner ids as strings and indents with four spaces.
func (jsonCodec) encode(fd *fileDocument) ([]byte, error) {
	ids := make([]jsontext.Value, len(fd.OwnerIDs))
	for i, id := range fd.OwnerIDs {
		ids[i] = jsontext.Value(strconv.Quote(id))
	}

	color, err := parseColor(fd.EmbedColor)
	if err != nil {
		return nil, err
	}

	jd := jsonDocument{
		Token:        fd.Token,
		EmbedColor:   jsontext.Value(strconv.Itoa(color)),
		FooterText:   fd.FooterText,
		FooterIcon:   fd.FooterIcon,
		DotEmoji:     fd.DotEmoji,
		SuccessEmoji: fd.SuccessEmoji,
		LoadingEmoji: fd.LoadingEmoji,
		WarningEmoji: fd.WarningEmoji,
		OwnerIDs:     ids,
	}
	if unknown, ok := fd.Unknown.(jsontext.Value); ok {
		jd.Unknown = unknown
	}

	out, err := json.Marshal(&jd, jsontext.WithIndent("    "))
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// jsonScalar returns the text of a JSON string or number.
func jsonScalar(v jsontext.Value) (string, error) {
	if len(v) == 0 {
		return "", nil
	}

	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(v), nil
	default:
		return "", fmt.Errorf("expected string or number, got %s", v)
	}
}
