package net

import (
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

const gatewayService = "_gencanvas-gw._tcp"

// DiscoverGateway browses the LAN for a generation gateway advertising itself
// over mDNS and returns its base URL. Used when no gateway URL is configured
// through the environment.
func DiscoverGateway(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)

	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("http://%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()

	err := mdns.Lookup(gatewayService, entries)
	close(entries)
	if err != nil {
		return "", fmt.Errorf("mdns lookup: %w", err)
	}

	select {
	case url := <-found:
		return url, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no generation gateway found on the local network")
	}
}
