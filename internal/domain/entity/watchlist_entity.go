package entity

import "time"

// Watchlist is the per-user set of saved posts. A user has at most one and it
// is created on the first add.
type Watchlist struct {
	ID         string
	UserID     string
	SavedDate  time.Time
	SavedPosts []Post
}

// Contains reports whether postID is among the saved posts.
func (w *Watchlist) Contains(postID string) bool {
	if w == nil {
		return false
	}
	for _, p := range w.SavedPosts {
		if p.ID == postID {
			return true
		}
	}
	return false
}
