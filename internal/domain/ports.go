package domain

import "context"

// RecordStore persists the whole property collection. Save always overwrites.
type RecordStore interface {
	Load(ctx context.Context) ([]Property, error)
	Save(ctx context.Context, ps []Property) error
}

// Sender delivers one text message to a recipient on the messaging provider.
type Sender interface {
	Send(ctx context.Context, recipient, text string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Claimer records that a key was seen. Claim reports true only for the first
// caller within ttlSec.
type Claimer interface {
	Claim(ctx context.Context, key string, ttlSec int) (bool, error)
}
