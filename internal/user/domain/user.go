package domain

import (
	"time"

	"github.com/google/uuid"
)

type ID string

type User struct {
	ID           ID
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// BlogRef is the derived view of a blog owned by a user. Ownership lives on
// the blog row; this is a read-side convenience, never stored state.
type BlogRef struct {
	ID     string
	Title  string
	Author string
	URL    string
	Likes  int
}

// UserWithBlogs is what the user listing returns: the public user fields plus
// the blogs derived from the ownership relation.
type UserWithBlogs struct {
	ID       ID
	Username string
	Name     string
	Blogs    []BlogRef
}

// Equals compares two identifiers canonically: both sides are parsed as UUIDs
// so differing textual representations of the same identifier compare equal.
// If either side is not a UUID the comparison falls back to raw equality.
func (id ID) Equals(other ID) bool {
	a, errA := uuid.Parse(string(id))
	b, errB := uuid.Parse(string(other))
	if errA != nil || errB != nil {
		return id == other
	}
	return a == b
}
