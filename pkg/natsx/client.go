// Package natsx connects to the NATS server that session events are published
// on.
package natsx

import (
	"cmp"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

// URLEnv names the environment variable consulted when no URL is given.
const URLEnv = "NATS_URL"

// URL resolves the server address: the explicit url, then $NATS_URL, then the
// NATS default.
func URL(url string) string {
	return cmp.Or(url, os.Getenv(URLEnv), nats.DefaultURL)
}

// NewClient connects to URL(url). Without options the connection is named
// "palaver", compressed and retried for a short while on reconnect.
func NewClient(url string, opts ...nats.Option) (*nats.Conn, error) {
	if len(opts) == 0 {
		opts = append(opts,
			nats.Name("palaver"),
			nats.Compression(true),
			nats.ReconnectWait(250*time.Millisecond),
			nats.MaxReconnects(8),
		)
	}
	return nats.Connect(URL(url), opts...)
}
