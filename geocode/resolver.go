// Package geocode resolves concrete street addresses to map points.
package geocode

import (
	"context"
	"fmt"
	"time"

	"sperrmuell/models"
	"sperrmuell/sources/osmindex"
	"sperrmuell/utils"
)

const (
	StrategyLocal     = "local"
	StrategyNominatim = "nominatim"
)

// Resolver maps one concrete address to at most one point. A false result
// means "not found". The error is reserved for cancellation of ctx.
type Resolver interface {
	Resolve(ctx context.Context, address string) (models.Point, bool, error)
}

// Policy bounds the external geocoder: one request per MinInterval,
// exponential backoff between BaseDelay and MaxDelay for at most MaxRetries
// retries, and MaxElapsed for the whole call including retries.
type Policy struct {
	MinInterval time.Duration
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxRetries  int
	MaxElapsed  time.Duration
}

// DefaultPolicy matches the public Nominatim usage policy.
func DefaultPolicy() Policy {
	return Policy{
		MinInterval: time.Second,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		MaxRetries:  5,
		MaxElapsed:  2 * time.Minute,
	}
}

// Options selects and configures a strategy.
type Options struct {
	Strategy  string
	Index     *osmindex.AddressIndex
	BaseURL   string
	UserAgent string
	Policy    Policy
}

// New builds the resolver named by opts.Strategy.
func New(opts Options, logger *utils.Logger) (Resolver, error) {
	switch opts.Strategy {
	case "", StrategyLocal:
		if opts.Index == nil {
			return nil, fmt.Errorf("geocode: local strategy needs an address index")
		}
		return NewLocal(opts.Index, logger), nil
	case StrategyNominatim:
		return NewNominatim(opts.BaseURL, opts.UserAgent, opts.Policy, logger), nil
	default:
		return nil, fmt.Errorf("geocode: unknown strategy %q", opts.Strategy)
	}
}
