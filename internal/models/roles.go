package models

// Roles are a flat capability set attached to each user, not a hierarchy.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
