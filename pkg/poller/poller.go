// Package poller implements client-side polling of a pending join request
// until an approver finalizes it. The waiting-for-approval screen drives one
// Poller per submitted request.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	"github.com/gymadminhq/gym_management_app/internal/dto"
)

const defaultInterval = 5 * time.Second

// Update is delivered to the OnUpdate callback whenever the observed status
// changes between polls.
type Update struct {
	Status  domain.RequestStatus
	Request *dto.JoinRequestResponse
}

// Poller repeatedly fetches the status of a join request at a fixed interval
// until the request reaches a terminal status or the context is cancelled.
type Poller struct {
	client   StatusClient
	interval time.Duration
	logger   *slog.Logger

	// OnUpdate, when set, is invoked on every observed status change,
	// including the first poll. Callbacks run on the polling goroutine.
	OnUpdate func(Update)
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the default 5s poll interval.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithLogger attaches a logger for poll errors.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// New creates a Poller around the given status client.
func New(client StatusClient, opts ...Option) *Poller {
	p := &Poller{
		client:   client,
		interval: defaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls until the request identified by (gymCode, role) for the token's
// identity reaches APPROVED or REJECTED, and returns that terminal status.
// UNKNOWN responses are treated as still pending: the backend answers UNKNOWN
// when the request has not landed yet, so the poller keeps going rather than
// reporting a stale local state. Transient fetch errors are logged and the
// next tick retries. Returns ctx.Err() if the context ends first.
func (p *Poller) Wait(ctx context.Context, gymCode string, role domain.GymRole) (domain.RequestStatus, error) {
	// Poll once up front so callers get an immediate answer for requests
	// that were finalized while the client was away.
	last := domain.RequestStatus("")
	if status, done := p.pollOnce(ctx, gymCode, role, &last); done {
		return status, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.StatusUnknown, ctx.Err()
		case <-ticker.C:
			if status, done := p.pollOnce(ctx, gymCode, role, &last); done {
				return status, nil
			}
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, gymCode string, role domain.GymRole, last *domain.RequestStatus) (domain.RequestStatus, bool) {
	status, request, err := p.client.FetchStatus(ctx, gymCode, role)
	if err != nil {
		p.logger.Warn("status poll failed", slog.String("gym_code", gymCode), slog.String("error", err.Error()))
		return domain.StatusUnknown, false
	}

	if status != *last {
		*last = status
		if p.OnUpdate != nil {
			p.OnUpdate(Update{Status: status, Request: request})
		}
	}

	return status, status.IsTerminal()
}
