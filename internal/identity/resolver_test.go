// File: internal/identity/resolver_test.go
package identity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dentalscope_backend/internal/platform/logger"
	"dentalscope_backend/internal/shared"
)

type fakeProfileService struct {
	mu       sync.Mutex
	profiles map[string]*shared.Profile
	err      error
	fetches  int32
}

func newFakeProfileService() *fakeProfileService {
	return &fakeProfileService{profiles: make(map[string]*shared.Profile)}
}

func (f *fakeProfileService) GetProfileByStableID(ctx context.Context, stableID string) (*shared.Profile, error) {
	atomic.AddInt32(&f.fetches, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[stableID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (f *fakeProfileService) UpsertFromClaims(ctx context.Context, claims shared.ProviderClaims) (*shared.Profile, bool, error) {
	return nil, false, errors.New("not used in these tests")
}

func (f *fakeProfileService) fetchCount() int32 {
	return atomic.LoadInt32(&f.fetches)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func firebaseEvent(uid string) Event {
	return Event{Provider: shared.ProviderFirebase, User: FirebaseUser{UID: uid}}
}

func clerkEvent(id string) Event {
	return Event{Provider: shared.ProviderClerk, User: ClerkUser{ID: id}}
}

func TestResolverStartsInitializing(t *testing.T) {
	profiles := newFakeProfileService()
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	view := r.Snapshot()
	if view.State != StateInitializing || !view.IsLoading {
		t.Errorf("expected loading initializing view, got %+v", view)
	}
	if view.IsAuthenticated || view.ActiveUser != nil || view.Profile != nil {
		t.Errorf("initializing view must be empty, got %+v", view)
	}
}

func TestResolverSignInResolvesProfile(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1", Role: "user"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().State == StateReady })

	view := r.Snapshot()
	if !view.IsAuthenticated || view.IsLoading {
		t.Errorf("expected settled authenticated view, got %+v", view)
	}
	if view.ActiveUser == nil || view.ActiveUser.StableID() != "uid-1" {
		t.Errorf("unexpected active user: %+v", view.ActiveUser)
	}
	if view.Profile == nil || view.Profile.StableID != "uid-1" {
		t.Errorf("unexpected profile: %+v", view.Profile)
	}
}

func TestResolverProfileFetchFailureIsNonFatal(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.err = errors.New("database down")
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().State == StateReady })

	view := r.Snapshot()
	if !view.IsAuthenticated {
		t.Error("a failed profile fetch must not sign the user out")
	}
	if view.Profile != nil {
		t.Errorf("profile must stay nil after a failed fetch, got %+v", view.Profile)
	}
}

func TestResolverCurrentProviderWins(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().State == StateReady })
	fetchesBefore := profiles.fetchCount()

	r.Dispatch(clerkEvent("clerk-9"))
	// The other provider's session must be ignored without a refetch.
	time.Sleep(50 * time.Millisecond)

	view := r.Snapshot()
	if view.ActiveUser == nil || view.ActiveUser.Provider() != shared.ProviderFirebase {
		t.Errorf("expected the Firebase session to be retained, got %+v", view.ActiveUser)
	}
	if profiles.fetchCount() != fetchesBefore {
		t.Errorf("expected no profile refetch, fetches went %d -> %d", fetchesBefore, profiles.fetchCount())
	}
}

func TestResolverSameUserReannouncedNoRefetch(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().State == StateReady })
	fetchesBefore := profiles.fetchCount()

	r.Dispatch(firebaseEvent("uid-1"))
	time.Sleep(50 * time.Millisecond)

	if profiles.fetchCount() != fetchesBefore {
		t.Errorf("re-announcing the same user must not refetch, fetches went %d -> %d",
			fetchesBefore, profiles.fetchCount())
	}
}

func TestResolverSignOutFromOtherProviderIgnored(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().State == StateReady })

	r.Dispatch(Event{Provider: shared.ProviderClerk, User: nil})
	time.Sleep(50 * time.Millisecond)

	if view := r.Snapshot(); !view.IsAuthenticated {
		t.Error("sign-out from the non-current provider must be ignored")
	}
}

func TestResolverSignOutClearsBothAtomically(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(firebaseEvent("uid-1"))
	waitFor(t, func() bool { return r.Snapshot().Profile != nil })

	r.Dispatch(Event{Provider: shared.ProviderFirebase, User: nil})
	waitFor(t, func() bool { return r.Snapshot().State == StateUnauthenticated })

	view := r.Snapshot()
	if view.ActiveUser != nil || view.Profile != nil || view.IsAuthenticated || view.IsLoading {
		t.Errorf("signed-out view must be fully cleared, got %+v", view)
	}
}

func TestResolverFirstEventSignedOut(t *testing.T) {
	profiles := newFakeProfileService()
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	r.Dispatch(Event{Provider: shared.ProviderFirebase, User: nil})
	waitFor(t, func() bool { return r.Snapshot().State == StateUnauthenticated })

	if view := r.Snapshot(); view.IsLoading {
		t.Error("view must settle unauthenticated after a signed-out first event")
	}
}

// Observers must never see a profile without its active user, no matter how
// sign-in and sign-out interleave.
func TestResolverViewPairInvariant(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	stopReaders := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stopReaders:
					return
				default:
				}
				view := r.Snapshot()
				if view.Profile != nil && view.ActiveUser == nil {
					t.Error("observed profile without active user")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		r.Dispatch(firebaseEvent("uid-1"))
		r.Dispatch(Event{Provider: shared.ProviderFirebase, User: nil})
	}
	waitFor(t, func() bool { return r.Snapshot().State == StateUnauthenticated })

	close(stopReaders)
	wg.Wait()
}

func TestResolverSubscribe(t *testing.T) {
	profiles := newFakeProfileService()
	profiles.profiles["uid-1"] = &shared.Profile{StableID: "uid-1"}
	r := NewResolver(profiles, logger.NewDefaultLogger())
	defer r.Close()

	views, unsubscribe := r.Subscribe()
	r.Dispatch(firebaseEvent("uid-1"))

	var settled bool
	timeout := time.After(2 * time.Second)
	for !settled {
		select {
		case view := <-views:
			if view.State == StateReady {
				settled = true
			}
		case <-timeout:
			t.Fatal("never received a settled view")
		}
	}

	unsubscribe()
	// Unsubscribing twice is safe.
	unsubscribe()
}
