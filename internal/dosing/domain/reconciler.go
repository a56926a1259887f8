package domain

import "time"

// ReconcilerState is the state of an EndModeReconciler.
type ReconcilerState string

const (
	// ReconcilerIdle derives the end mode from every raw date change.
	ReconcilerIdle ReconcilerState = "idle"
	// ReconcilerSuppressed ignores raw date changes while a computed date settles.
	ReconcilerSuppressed ReconcilerState = "suppressed"
)

const (
	// DefaultSettleWindow must exceed the date picker's own animation time.
	DefaultSettleWindow = 600 * time.Millisecond
	// DefaultManualStickyWindow keeps a manual pick while the picker settles.
	DefaultManualStickyWindow = 800 * time.Millisecond
)

// ReconcilerConfig holds the timing windows of an EndModeReconciler.
type ReconcilerConfig struct {
	SettleWindow       time.Duration
	ManualStickyWindow time.Duration
}

// DefaultReconcilerConfig returns the default timing windows.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		SettleWindow:       DefaultSettleWindow,
		ManualStickyWindow: DefaultManualStickyWindow,
	}
}

// EndModeReconciler keeps the active end mode consistent with raw edits of
// the end date during one editing session. It is not safe for concurrent
// use; it runs on the caller's event loop.
type EndModeReconciler struct {
	now    func() time.Time
	config ReconcilerConfig

	mode            EndMode
	expiryCandidate *time.Time
	countCandidate  *time.Time
	suppressedUntil time.Time
	stickyUntil     time.Time
}

// NewEndModeReconciler starts a session in the given mode.
func NewEndModeReconciler(initial EndMode, config ReconcilerConfig, now func() time.Time) *EndModeReconciler {
	if now == nil {
		now = time.Now
	}
	if !initial.IsValid() {
		initial = EndModeManual
	}
	return &EndModeReconciler{
		now:    now,
		config: config,
		mode:   initial,
	}
}

// Mode is the currently active end mode.
func (r *EndModeReconciler) Mode() EndMode {
	return r.mode
}

// State reports whether raw date changes are currently being ignored.
func (r *EndModeReconciler) State() ReconcilerState {
	if r.now().Before(r.suppressedUntil) {
		return ReconcilerSuppressed
	}
	return ReconcilerIdle
}

// SetCandidates records the dates the expiry-linked and count-target modes
// would currently produce. Nil clears a candidate.
func (r *EndModeReconciler) SetCandidates(expiry, count *time.Time) {
	r.expiryCandidate = dayPtr(expiry)
	r.countCandidate = dayPtr(count)
}

// PushComputed is called right before the caller writes a computed end date
// into the picker. The mode switches and raw changes are ignored until the
// settle window has passed.
func (r *EndModeReconciler) PushComputed(mode EndMode, date time.Time) {
	d := Day(date)
	switch mode {
	case EndModeExpiryLinked:
		r.expiryCandidate = &d
	case EndModeCountTarget:
		r.countCandidate = &d
	}
	if mode.IsValid() {
		r.mode = mode
	}
	r.suppressedUntil = r.now().Add(r.config.SettleWindow)
}

// SelectManual records an explicit manual choice by the user.
func (r *EndModeReconciler) SelectManual() {
	r.mode = EndModeManual
	r.stickyUntil = r.now().Add(r.config.ManualStickyWindow)
}

// OnDateChanged handles a raw end-date change and returns the resulting mode
// and whether it changed. The date itself is always applied by the caller.
func (r *EndModeReconciler) OnDateChanged(date time.Time) (EndMode, bool) {
	now := r.now()
	if now.Before(r.suppressedUntil) {
		return r.mode, false
	}
	if r.mode == EndModeManual && now.Before(r.stickyUntil) {
		return r.mode, false
	}

	d := Day(date)
	next := EndModeManual
	switch {
	case r.expiryCandidate != nil && r.expiryCandidate.Equal(d):
		next = EndModeExpiryLinked
	case r.countCandidate != nil && r.countCandidate.Equal(d):
		next = EndModeCountTarget
	}

	changed := next != r.mode
	r.mode = next
	return r.mode, changed
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}
