package models

// Tag labels expenses. System tags are seeded at startup, shared by every
// user, and have no owner. User tags are private to their owner.
type Tag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"isSystem"`
	OwnerID  *int64 `json:"-"`
}

// TagRef is the resolved reference embedded in expense responses.
type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
