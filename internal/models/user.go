package models

import "time"

// User is a tracked account with its linked platform handles
type User struct {
	ID        string
	Username  string
	Email     string
	Links     PlatformLinks
	CreatedAt time.Time
}
