package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/lromerov/itemcat/internal/suggest"
)

// maxCategoryLen caps wordy model replies before they reach the database.
const maxCategoryLen = 120

type ClaudeSuggester struct {
	client *anthropic.Client
	model  string
}

func NewClaudeSuggester(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeSuggester {
	return &ClaudeSuggester{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (s *ClaudeSuggester) Suggest(ctx context.Context, itemName string, image []byte, mimeType string) (string, error) {
	prompt := suggest.Prompt
	if itemName != "" {
		prompt = fmt.Sprintf("The item is named %q.\n%s", itemName, suggest.Prompt)
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		MaxTokens: 32,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(
							anthropic.MessagesContentSourceTypeBase64,
							normaliseMIME(mimeType),
							base64.StdEncoding.EncodeToString(image),
						),
					),
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	category := strings.TrimSpace(resp.GetFirstContentText())
	if i := strings.IndexByte(category, '\n'); i >= 0 {
		category = strings.TrimSpace(category[:i])
	}
	if len(category) > maxCategoryLen {
		category = category[:maxCategoryLen]
	}
	return category, nil
}

// normaliseMIME maps detected MIME types to the values the Anthropic API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
