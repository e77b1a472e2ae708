package storage

import "errors"

// Well-known keys persisted between runs.
const (
	KeyRefreshToken = "refreshToken"
	KeyDarkMode     = "darkMode"
)

var ErrKeyNotFound = errors.New("key not found")

// Repo is durable client-side key-value storage, the native equivalent of
// the browser's localStorage. Values survive process restarts; the bearer
// token deliberately never goes through here.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
