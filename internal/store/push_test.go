package store

import "testing"

func TestPushCreateAndList(t *testing.T) {
	ps := NewPushStore(setupTestDB(t))

	sub, err := ps.CreateSubscription("user-1", "https://push.example/ep1", "p256dh-key", "auth-key", "phone")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub == nil || sub.ID == 0 {
		t.Fatal("expected stored subscription with an id")
	}
	if sub.Endpoint != "https://push.example/ep1" {
		t.Errorf("endpoint = %q", sub.Endpoint)
	}

	subs, err := ps.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}

	count, err := ps.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestPushUpsertByEndpoint(t *testing.T) {
	ps := NewPushStore(setupTestDB(t))

	first, err := ps.CreateSubscription("user-1", "https://push.example/ep", "old-p256dh", "old-auth", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := ps.CreateSubscription("user-1", "https://push.example/ep", "new-p256dh", "new-auth", "laptop")
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a new row: id %d != %d", second.ID, first.ID)
	}
	if second.P256dhKey != "new-p256dh" || second.AuthKey != "new-auth" {
		t.Errorf("keys not refreshed: %q / %q", second.P256dhKey, second.AuthKey)
	}

	count, err := ps.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestPushGetByEndpointAbsent(t *testing.T) {
	ps := NewPushStore(setupTestDB(t))

	sub, err := ps.GetByEndpoint("https://push.example/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub != nil {
		t.Errorf("expected nil for absent endpoint, got %+v", sub)
	}
}

func TestPushDelete(t *testing.T) {
	ps := NewPushStore(setupTestDB(t))

	sub, err := ps.CreateSubscription("user-1", "https://push.example/ep1", "k", "a", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ps.CreateSubscription("user-1", "https://push.example/ep2", "k", "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ps.DeleteSubscription(sub.ID); err != nil {
		t.Fatalf("delete by id: %v", err)
	}
	if err := ps.DeleteByEndpoint("https://push.example/ep2"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}

	count, err := ps.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
