package persistence

import (
	"context"

	apppartner "github.com/backoffice/backend/internal/application/partner"
	"github.com/backoffice/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormPartnerTransactionScope implements the partner TransactionScope
// using GORM transactions.
type GormPartnerTransactionScope struct {
	db *gorm.DB
}

// NewGormPartnerTransactionScope creates a new GormPartnerTransactionScope.
func NewGormPartnerTransactionScope(db *gorm.DB) *GormPartnerTransactionScope {
	return &GormPartnerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPartnerTransactionScope) Execute(ctx context.Context, fn func(repos apppartner.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPartnerRepositories{tx: tx})
	})
}

type gormPartnerRepositories struct {
	tx *gorm.DB
}

func (r *gormPartnerRepositories) CustomerRepo() partner.CustomerRepository {
	return NewCustomerRepository(r.tx)
}

func (r *gormPartnerRepositories) ProviderRepo() partner.ProviderRepository {
	return NewProviderRepository(r.tx)
}

func (r *gormPartnerRepositories) ContactRepo() partner.ContactRepository {
	return NewContactRepository(r.tx)
}

func (r *gormPartnerRepositories) AddressRepo() partner.AddressRepository {
	return NewAddressRepository(r.tx)
}

func (r *gormPartnerRepositories) CommonDataRepo() partner.CommonDataRepository {
	return NewCommonDataRepository(r.tx)
}

var _ apppartner.TransactionScope = (*GormPartnerTransactionScope)(nil)
var _ apppartner.TransactionalRepositories = (*gormPartnerRepositories)(nil)
