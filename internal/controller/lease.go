package controller

import (
	"context"

	orionerrors "github.com/orionvision/orion/internal/errors"
)

// DeviceLease grants exclusive, scoped access to the physical input devices.
// The pointer and keyboard are singleton resources; two scenarios driving
// them concurrently would interleave gestures and corrupt each other's
// state. The executor acquires the lease for the duration of any run that
// contains mouse, keyboard, or coordinated steps.
type DeviceLease struct {
	sem chan struct{}
}

// NewDeviceLease creates an unheld lease.
func NewDeviceLease() *DeviceLease {
	return &DeviceLease{sem: make(chan struct{}, 1)}
}

// Acquire blocks until the lease is available or the context ends.
func (l *DeviceLease) Acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the lease without blocking.
// Returns ErrDeviceBusy when another run holds it.
func (l *DeviceLease) TryAcquire() error {
	select {
	case l.sem <- struct{}{}:
		return nil
	default:
		return orionerrors.ErrDeviceBusy
	}
}

// Release returns the lease. Calling Release without holding the lease is a
// programming error and panics.
func (l *DeviceLease) Release() {
	select {
	case <-l.sem:
	default:
		panic("controller: release of unheld device lease")
	}
}

// Held reports whether the lease is currently taken.
func (l *DeviceLease) Held() bool {
	return len(l.sem) == 1
}
