package instance

import "os"

// GetID identifies this daemon in logs: BREWCART_INSTANCE_ID, then the
// hostname, then "local".
func GetID() string {
	if id := os.Getenv("BREWCART_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
