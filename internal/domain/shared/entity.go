package shared

import "time"

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() int64
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities. The ID is assigned
// by the repository on first save.
type BaseEntity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() int64 {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// TenantEntity is implemented by entities owned by a single tenant.
type TenantEntity interface {
	Entity
	GetTenantID() int64
}

// TenantOwned provides the tenant dimension for tenant-scoped entities.
// TenantID is set once at creation and is never part of update payloads.
type TenantOwned struct {
	BaseEntity
	TenantID int64 `gorm:"not null;index"`
}

// GetTenantID returns the owning tenant
func (t *TenantOwned) GetTenantID() int64 {
	return t.TenantID
}

// BelongsToTenant reports whether the entity is owned by the given tenant
func (t *TenantOwned) BelongsToTenant(tenantID int64) bool {
	return t.TenantID == tenantID
}

// NewTenantOwned creates the embedded base for a tenant-scoped entity
func NewTenantOwned(tenantID int64) TenantOwned {
	now := time.Now()
	return TenantOwned{
		BaseEntity: BaseEntity{CreatedAt: now, UpdatedAt: now},
		TenantID:   tenantID,
	}
}
