package clients

import (
	"context"
	"fmt"
	"log"
	"sync"

	"KisanGPT/app/configs"
)

type Registry struct {
	mu      sync.RWMutex
	clients []Interface
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make([]Interface, 0),
	}
}

func (r *Registry) Register(ctx context.Context, client Interface, asker Asker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := client.Subscribe(ctx, asker); err != nil {
		return err
	}
	r.clients = append(r.clients, client)
	return nil
}

func (r *Registry) GetAll() []Interface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Interface, len(r.clients))
	copy(result, r.clients)
	return result
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, client := range r.clients {
		if closer, ok := client.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Printf("⚠️ Error closing client: %v\n", err)
			}
		}
	}
	r.clients = make([]Interface, 0)
}

// CreateClients builds every enabled chat front-end.
func CreateClients(cfg *configs.Config) ([]Interface, error) {
	var out []Interface
	if cfg.Discord.Enabled {
		dc, err := NewDiscordClient(cfg.Discord)
		if err != nil {
			return nil, fmt.Errorf("discord client: %w", err)
		}
		out = append(out, dc)
	}
	return out, nil
}
