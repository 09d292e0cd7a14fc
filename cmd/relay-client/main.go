// Command relay-client is a small runnable demonstration of the upstream
// package: it loads a config file, authenticates against the configured
// upstream, and issues one GET request to /api/0/relays/live/, logging the
// outcome.
// It is not meant as a production daemon — there is no reconnect loop,
// queueing, or graceful shutdown beyond the one request, matching the
// original spec's Non-goals around persistence and batching.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/router-for-me/upstream-relay/internal/config"
	"github.com/router-for-me/upstream-relay/internal/logging"
	"github.com/router-for-me/upstream-relay/internal/upstream"
)

func main() {
	configPath := flag.String("config", "relay.yaml", "path to the relay config file")
	envPath := flag.String("env", ".env", "optional .env overlay for secret material")
	flag.Parse()

	log := logging.New(logging.Options{})

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	actor, err := upstream.NewActor(cfg, log.WithField("component", "upstream"))
	if err != nil {
		log.WithError(err).Fatal("failed to start upstream actor")
	}
	defer actor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := actor.Authenticate(ctx); err != nil {
		log.WithError(err).Fatal("authentication failed")
	}
	log.Info("authenticated with upstream")

	body, err := actor.SendRequest(ctx, "GET", "/api/0/relays/live/", nil, nil)
	if err != nil {
		log.WithError(err).Fatal("request failed")
	}
	log.WithField("response", string(body)).Info("request succeeded")

	os.Exit(0)
}
