package main

import (
	"log"
	"time"

	"GenCanvas/internal/genai"
	"GenCanvas/internal/interaction"
	"GenCanvas/internal/net"
	"GenCanvas/internal/scene"
	"GenCanvas/internal/ui"
)

const discoveryTimeout = 2 * time.Second

func main() {
	cfg, err := genai.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// No configured gateway: try to find one on the local network before
	// falling back to offline mode.
	if cfg.GatewayURL == "" {
		url, err := net.DiscoverGateway(discoveryTimeout)
		if err != nil {
			log.Printf("No generation gateway found: %v", err)
		} else {
			log.Printf("Discovered generation gateway at %s", url)
			cfg.GatewayURL = url
		}
	}

	var svc genai.Service
	if cfg.GatewayURL != "" {
		svc = genai.NewClient(cfg)
	} else {
		log.Println("Running without a generation gateway; AI actions disabled")
	}

	if ip, err := net.GetOutgoingIP(); err == nil {
		log.Printf("Local address: %s", ip)
	}

	store := scene.NewStore()
	engine := interaction.NewEngine(store, svc)
	ui.RunApp(store, engine)
}
