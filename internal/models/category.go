package models

// Category is a two-level expense grouping. Top-level categories have a nil
// ParentID. OwnerID is nil for predefined (global) categories.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
	OwnerID  *int64 `json:"-"`
}

// CategoryRef is the resolved reference embedded in expense responses.
type CategoryRef struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ParentID   *int64  `json:"parentId,omitempty"`
	ParentName *string `json:"parentName,omitempty"`
}
