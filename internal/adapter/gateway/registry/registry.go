package registry

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Identity and Asset are the registry adapter's own tables; the core
// engines only see the gateway interface.
type Identity struct {
	ID       string `gorm:"primaryKey;size:32;column:id"`
	Verified bool   `gorm:"column:verified"`
}

func (Identity) TableName() string { return "identities" }

type Asset struct {
	ID      string `gorm:"primaryKey;size:64;column:id"`
	OwnerID string `gorm:"size:32;column:owner_id"`
}

func (Asset) TableName() string { return "assets" }

type Registry struct{ db *gorm.DB }

func New(db *gorm.DB) *Registry { return &Registry{db: db} }

func (g *Registry) IsVerified(ctx context.Context, identity string) (bool, error) {
	var out Identity
	res := g.db.WithContext(ctx).Where("id = ?", identity).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return out.Verified, nil
}

func (g *Registry) AssetOwner(ctx context.Context, assetID string) (string, bool, error) {
	var out Asset
	res := g.db.WithContext(ctx).Where("id = ?", assetID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if res.Error != nil {
		return "", false, res.Error
	}
	return out.OwnerID, true, nil
}

// RegisterIdentity and RegisterAsset seed the registry; verification
// itself happens in an external KYC flow.
func (g *Registry) RegisterIdentity(ctx context.Context, id string, verified bool) error {
	return g.db.WithContext(ctx).Save(&Identity{ID: id, Verified: verified}).Error
}

func (g *Registry) RegisterAsset(ctx context.Context, id, ownerID string) error {
	return g.db.WithContext(ctx).Save(&Asset{ID: id, OwnerID: ownerID}).Error
}
