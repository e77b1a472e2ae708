package config

import "time"

type HTTPConfig interface {
	GetRequestTimeout() time.Duration
}

type HTTP struct{}

var _ HTTPConfig = HTTP{}

// GetRequestTimeout bounds every API call. The backend does not advertise a
// timeout of its own; without this a hung request would leave its caller
// loading forever.
func (HTTP) GetRequestTimeout() time.Duration {
	return 15 * time.Second
}
