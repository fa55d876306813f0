package config

import (
	"log"

	"github.com/nats-io/nats.go"
)

var (
	// NATS mirrors the tracking log onto a live stream for audit consumers.
	// Nil when no broker is configured; the recorder then skips publishing.
	NATS *nats.Conn
)

// InitNATS connects the event stream. Optional: a missing broker is logged,
// not fatal, since the durable tracking log lives in postgres.
func InitNATS() {
	url := getEnv("NATS_URL", "")
	if url == "" {
		log.Println("NATS_URL not set, tracking stream disabled")
		return
	}
	nc, err := nats.Connect(url, nats.Name("medwaste-tracker"))
	if err != nil {
		log.Printf("failed to connect to nats at %s: %v, tracking stream disabled", url, err)
		return
	}
	NATS = nc
}
