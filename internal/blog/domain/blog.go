package domain

import (
	"time"

	userdomain "github.com/mzhdanov/bloglist/internal/user/domain"
)

type ID string

type Blog struct {
	ID        ID
	Title     string
	Author    string
	URL       string
	Likes     int
	OwnerID   userdomain.ID
	CreatedAt time.Time
}

// Owner is the public slice of the owning user embedded in blog listings.
type Owner struct {
	ID       userdomain.ID
	Username string
	Name     string
}

type BlogWithOwner struct {
	Blog
	Owner Owner
}
