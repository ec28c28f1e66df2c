package registry_test

import (
	"context"
	"testing"

	"p2plend-backend/internal/adapter/gateway/registry"
	"p2plend-backend/internal/testutil/dbtest"
	"p2plend-backend/pkg/id"
)

func TestIsVerified(t *testing.T) {
	db := dbtest.Open(t)
	g := registry.New(db)
	ctx := context.Background()

	unknown := id.NewID32()
	ok, err := g.IsVerified(ctx, unknown)
	if err != nil || ok {
		t.Fatalf("unknown identity: (%v, %v)", ok, err)
	}

	pending := id.NewID32()
	if err := g.RegisterIdentity(ctx, pending, false); err != nil {
		t.Fatalf("RegisterIdentity: %v", err)
	}
	ok, err = g.IsVerified(ctx, pending)
	if err != nil || ok {
		t.Fatalf("unverified identity: (%v, %v)", ok, err)
	}

	// verification flips with a re-register
	if err := g.RegisterIdentity(ctx, pending, true); err != nil {
		t.Fatalf("RegisterIdentity update: %v", err)
	}
	ok, err = g.IsVerified(ctx, pending)
	if err != nil || !ok {
		t.Fatalf("verified identity: (%v, %v)", ok, err)
	}
}

func TestAssetOwner(t *testing.T) {
	db := dbtest.Open(t)
	g := registry.New(db)
	ctx := context.Background()

	if _, ok, err := g.AssetOwner(ctx, "missing"); err != nil || ok {
		t.Fatalf("unknown asset: (%v, %v)", ok, err)
	}

	owner := id.NewID32()
	if err := g.RegisterAsset(ctx, "house-1", owner); err != nil {
		t.Fatalf("RegisterAsset: %v", err)
	}
	got, ok, err := g.AssetOwner(ctx, "house-1")
	if err != nil || !ok || got != owner {
		t.Fatalf("AssetOwner: (%q, %v, %v)", got, ok, err)
	}
}
