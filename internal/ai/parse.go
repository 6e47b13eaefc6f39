package ai

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrParseFailed = errors.New("parse_failed")

type Affirmation struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// ParseAffirmation decodes the JSON object the model returns for the daily
// quote. Markdown code fences around the object are tolerated. An object
// without text is a parse failure.
func ParseAffirmation(raw string) (Affirmation, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var a Affirmation
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return Affirmation{}, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	a.Text = strings.TrimSpace(a.Text)
	a.Author = strings.TrimSpace(a.Author)
	if a.Text == "" {
		return Affirmation{}, fmt.Errorf("%w: empty text", ErrParseFailed)
	}
	if a.Author == "" {
		a.Author = defaultAuthor
	}
	return a, nil
}

// FirstInlineImage returns the first inline image of a response as a data URL.
func FirstInlineImage(res *genai.GenerateContentResponse) (string, bool) {
	if res == nil {
		return "", false
	}
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), true
		}
	}
	return "", false
}
