package cart

import "context"

// StorageKey is the single key under which the serialized cart lives,
// regardless of backend.
const StorageKey = "snowboard_cart"

// Store is an opaque get/set-string key-value service holding one serialized
// cart value. An absent value is reported as ok=false without error.
type Store interface {
	Get(ctx context.Context) (value string, ok bool, err error)
	Set(ctx context.Context, value string) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
