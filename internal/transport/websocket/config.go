package websocket

import "time"

const wildcardOrigin = "*"

type Config struct {
	// ClientURL is the only browser origin allowed to connect, "*" allows any.
	ClientURL      string
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

func DefaultConfig(clientURL string) Config {
	return Config{
		ClientURL:      clientURL,
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1024,
		SendBuffer:     64,
	}
}

// allowOrigin - requests without an Origin header come from non-browser clients and are allowed.
func (that Config) allowOrigin(origin string) bool {
	if origin == "" || that.ClientURL == "" || that.ClientURL == wildcardOrigin {
		return true
	}

	return origin == that.ClientURL
}

func (that Config) allowedOrigins() []string {
	if that.ClientURL == "" {
		return []string{wildcardOrigin}
	}

	return []string{that.ClientURL}
}
