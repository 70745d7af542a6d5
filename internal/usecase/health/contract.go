package health

import "context"

// StoragePinger checks state storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}
