// Package keepalive pings the service's own public URL so free-tier hosts
// that sleep idle instances keep it awake.
package keepalive

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Pinger struct {
	url      string
	interval time.Duration
	http     *http.Client
}

func New(url string, interval time.Duration) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Run pings every interval until ctx is cancelled.
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("keepalive: pinging %s every %s", p.url, p.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Ping(ctx); err != nil {
				log.Printf("keepalive: %v", err)
			}
		}
	}
}

func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}
