package domain

// Item is a catalog record. ImagePath is the stored filename of the
// associated asset in the upload root, or nil when the item has no image.
type Item struct {
	ID          int64
	Name        string
	Description string
	Category    string
	ImagePath   *string
}

// ItemUpdate carries the fields of a partial update. A nil pointer means
// "not provided, keep the current value". An empty string is a real value:
// it clears description or category. Name is never updated to empty; the
// service demotes an empty name to nil before it reaches the store.
type ItemUpdate struct {
	Name        *string
	Description *string
	Category    *string
}
