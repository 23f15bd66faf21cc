package notify

import (
	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/store"
)

// Gate answers whether notification delivery is allowed right now. State is
// always derived from live platform facts — configured VAPID keys, registered
// subscriptions, a recorded decline — never from a cached snapshot.
type Gate struct {
	service *Service // nil when the push layer is not configured
	subs    *store.PushStore
	prefs   *store.PrefStore
}

func NewGate(service *Service, subs *store.PushStore, prefs *store.PrefStore) *Gate {
	return &Gate{service: service, subs: subs, prefs: prefs}
}

// Query returns the current permission state. It has no side effects.
//
// Without VAPID keys the whole notification capability is absent, so the
// state is unsupported and all delivery attempts become no-ops. A registered
// subscription means the user granted the prompt; granted takes precedence
// over an older recorded decline.
func (g *Gate) Query() (model.PermissionState, error) {
	if g.service == nil {
		return model.PermissionUnsupported, nil
	}

	count, err := g.subs.Count()
	if err != nil {
		return model.PermissionUnasked, err
	}
	if count > 0 {
		return model.PermissionGranted, nil
	}

	denied, err := g.prefs.PermissionDenied()
	if err != nil {
		return model.PermissionUnasked, err
	}
	if denied {
		return model.PermissionDenied, nil
	}
	return model.PermissionUnasked, nil
}

// RecordDenial stores a declined prompt. The UI may re-offer the prompt on a
// later visit but must not auto-re-prompt.
func (g *Gate) RecordDenial() error {
	return g.prefs.SetPermissionDenied(true)
}

// ClearDenial resets a recorded decline, e.g. when the user subscribes.
func (g *Gate) ClearDenial() error {
	return g.prefs.SetPermissionDenied(false)
}
