package main

import (
	"log"
	"os"

	"github.com/walfie/vts-plugin-go/internal/obslog"
	"github.com/walfie/vts-plugin-go/mcp"
	"github.com/walfie/vts-plugin-go/pluginconfig"
	"github.com/walfie/vts-plugin-go/tokenstore"
	"github.com/walfie/vts-plugin-go/vtsclient"
)

func main() {
	configDir := os.Getenv("VTS_PLUGIN_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}

	store, err := pluginconfig.NewStore(configDir)
	if err != nil {
		log.Fatalf("loading plugin config: %v", err)
	}
	cfg := store.Get()

	if cfg.Plugin.Name == "" {
		cfg.Plugin.Name = "vts-plugin-go MCP bridge"
		cfg.Plugin.Developer = "vts-plugin-go"
	}

	logger := obslog.New(obslog.Config{Writer: os.Stderr, JSON: true})

	// tokenstore is an opt-in, embedder-level extension (see
	// pluginconfig.go's package doc): the core pipeline never persists a
	// token itself, so main wires one up explicitly to survive restarts.
	tokens := tokenstore.New(configDir)
	storedToken, err := tokens.Load()
	if err != nil {
		logger.Warn("loading stored auth token, starting unauthenticated", "error", err)
	}

	builder := vtsclient.NewBuilder().
		URL(cfg.URL).
		Authentication(cfg.Plugin.Name, cfg.Plugin.Developer, cfg.Plugin.Icon).
		RetryOnDisconnect(cfg.RetryOnDisconnect).
		RetryOnAuthError(cfg.RetryOnAuthError).
		TokenObserver(tokens).
		Logger(logger)
	if storedToken != "" {
		builder = builder.AuthToken(storedToken)
	}
	if cfg.RequestBuffer > 0 {
		builder = builder.RequestBuffer(cfg.RequestBuffer)
	}
	if cfg.EventBuffer > 0 {
		builder = builder.EventBuffer(cfg.EventBuffer)
	}

	client, signals, err := builder.Build()
	if err != nil {
		log.Fatalf("building vtsclient: %v", err)
	}
	defer client.Close()

	go func() {
		for sig := range signals {
			logger.Info("vtsclient signal", "signal", sig.String())
		}
	}()

	server := mcp.NewServer(client, logger)
	if err := server.Run(); err != nil {
		log.Fatalf("mcp server exited: %v", err)
	}
}
