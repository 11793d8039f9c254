// File: internal/identity/resolver.go
package identity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dentalscope_backend/internal/shared"
)

const profileFetchTimeout = 10 * time.Second

// Resolver merges session events from both identity providers into one
// consistent view. All events are consumed by a single goroutine, so observers
// never see a half-updated ActiveUser/Profile pair.
//
// Precedence: while a provider session is active, events from the other
// provider are ignored; the current provider wins until it signs out.
type Resolver struct {
	profiles shared.Service
	logger   *zap.Logger

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	mu          sync.RWMutex
	state       State
	activeUser  ActiveUser
	profile     *shared.Profile
	subscribers map[int]chan View
	nextSubID   int
}

// NewResolver creates a resolver and starts its event loop.
func NewResolver(profiles shared.Service, logger *zap.Logger) *Resolver {
	r := &Resolver{
		profiles:    profiles,
		logger:      logger.Named("identity_resolver"),
		events:      make(chan Event, 16),
		done:        make(chan struct{}),
		state:       StateInitializing,
		subscribers: make(map[int]chan View),
	}
	go r.run()
	return r
}

// Dispatch feeds a provider session event into the resolver. Events are
// processed in arrival order. Dispatch after Close is a no-op.
func (r *Resolver) Dispatch(ev Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Snapshot returns the current view.
func (r *Resolver) Snapshot() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewLocked()
}

// Subscribe registers a change feed. The channel receives the view after every
// state change; an undelivered view is replaced by the newer one. The returned
// function unsubscribes.
func (r *Resolver) Subscribe() (<-chan View, func()) {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	ch := make(chan View, 1)
	r.subscribers[id] = ch
	r.mu.Unlock()

	unsubscribe := func() {
		r.mu.Lock()
		if existing, ok := r.subscribers[id]; ok {
			delete(r.subscribers, id)
			close(existing)
		}
		r.mu.Unlock()
	}
	return ch, unsubscribe
}

// Close stops the event loop. Pending events are dropped.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

func (r *Resolver) run() {
	for {
		select {
		case <-r.done:
			return
		case ev := <-r.events:
			r.handle(ev)
		}
	}
}

func (r *Resolver) handle(ev Event) {
	if ev.User == nil {
		r.handleSignedOut(ev.Provider)
		return
	}
	r.handleSignedIn(ev)
}

func (r *Resolver) handleSignedIn(ev Event) {
	r.mu.Lock()
	if r.activeUser != nil && r.activeUser.Provider() != ev.Provider {
		// Current provider wins; the other provider's session is ignored.
		r.logger.Debug("Ignoring session from non-current provider",
			zap.String("current", r.activeUser.Provider()),
			zap.String("event", ev.Provider),
		)
		r.mu.Unlock()
		return
	}
	if r.state == StateReady && r.activeUser != nil && r.activeUser.StableID() == ev.User.StableID() {
		// Same user re-announced; keep the settled view, no profile refetch.
		r.activeUser = ev.User
		r.mu.Unlock()
		return
	}

	r.state = StateResolvingProfile
	r.activeUser = ev.User
	r.profile = nil
	r.publishLocked()
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), profileFetchTimeout)
	profile, err := r.profiles.GetProfileByStableID(ctx, ev.User.StableID())
	cancel()
	if err != nil {
		// Non-fatal: the view settles with a nil profile.
		r.logger.Warn("Profile fetch failed",
			zap.String("stable_id", ev.User.StableID()),
			zap.Error(err),
		)
		profile = nil
	}

	r.mu.Lock()
	// Only settle if this sign-in is still the active one.
	if r.state == StateResolvingProfile && r.activeUser != nil && r.activeUser.StableID() == ev.User.StableID() {
		r.state = StateReady
		r.profile = profile
		r.publishLocked()
	}
	r.mu.Unlock()
}

func (r *Resolver) handleSignedOut(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeUser != nil && r.activeUser.Provider() != provider {
		r.logger.Debug("Ignoring signed-out from non-current provider",
			zap.String("current", r.activeUser.Provider()),
			zap.String("event", provider),
		)
		return
	}

	// ActiveUser and Profile are cleared in the same critical section, so no
	// observer can see one without the other.
	r.state = StateUnauthenticated
	r.activeUser = nil
	r.profile = nil
	r.publishLocked()
}

func (r *Resolver) viewLocked() View {
	return View{
		State:           r.state,
		ActiveUser:      r.activeUser,
		Profile:         r.profile,
		IsAuthenticated: r.activeUser != nil,
		IsLoading:       r.state == StateInitializing || r.state == StateResolvingProfile,
	}
}

func (r *Resolver) publishLocked() {
	view := r.viewLocked()
	for _, ch := range r.subscribers {
		select {
		case ch <- view:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}
