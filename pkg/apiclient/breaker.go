package apiclient

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/sony/gobreaker/v2"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
	"github.com/milan604/dataprovider-sdk/pkg/logger"
)

// BreakerConfig configures BreakerTransport.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive transport failures that opens
	// the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
	Logger      logger.LogManager
}

// BreakerTransport fails fast while the wrapped transport keeps failing at the
// connection level. HTTP error statuses never trip it, and it never retries.
type BreakerTransport struct {
	next Transport
	cb   *gobreaker.CircuitBreaker[*RawResponse]
}

// NewBreakerTransport wraps next with a circuit breaker.
func NewBreakerTransport(next Transport, cfg BreakerConfig) *BreakerTransport {
	if cfg.Name == "" {
		cfg.Name = "dataprovider"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WarnW("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerTransport{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*RawResponse](settings),
	}
}

func (b *BreakerTransport) RoundTrip(ctx context.Context, req *Request) (*RawResponse, error) {
	resp, err := b.cb.Execute(func() (*RawResponse, error) {
		return b.next.RoundTrip(ctx, req)
	})
	if err != nil {
		if stdErrors.Is(err, gobreaker.ErrOpenState) || stdErrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, sdkerrors.Transport(err)
		}
		return nil, err
	}
	return resp, nil
}

// State reports the current breaker state.
func (b *BreakerTransport) State() gobreaker.State {
	return b.cb.State()
}
