package histcache

import "fmt"

// ErrNotFound is returned when a session id is not in the cache.
type ErrNotFound struct {
	ID int64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("session %d not found in cache", e.ID)
}
