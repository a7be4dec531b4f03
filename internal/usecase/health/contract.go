package health

import "context"

// Pinger checks one upstream dependency's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
