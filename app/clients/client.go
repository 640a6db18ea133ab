package clients

import (
	"context"

	"KisanGPT/app/chat"
)

// Asker answers one farmer question.
type Asker interface {
	Ask(ctx context.Context, q chat.ChatQuery) (*chat.ChatAnswer, error)
}

type Interface interface {
	Subscribe(ctx context.Context, asker Asker) error
}

type Client struct {
	ctx   context.Context
	asker Asker
}
