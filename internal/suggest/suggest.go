package suggest

import "context"

// Prompt is shared by all suggester backends.
const Prompt = `Suggest a single short category for the catalog item shown in this photo.
Examples: Furniture, Electronics, Clothing, Kitchen, Tools.
Respond with only the category name, nothing else.`

// CategorySuggester proposes a category for an item from its uploaded image.
// It is an optional collaborator: a failed or empty suggestion never blocks
// the catalog operation that asked for it.
type CategorySuggester interface {
	Suggest(ctx context.Context, itemName string, image []byte, mimeType string) (string, error)
}
