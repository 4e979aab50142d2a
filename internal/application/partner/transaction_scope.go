package partner

import (
	"context"

	"github.com/backoffice/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to partner repositories.
// A composite create or update runs entirely inside one scope so the
// parent and its children are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the partner repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	CustomerRepo() partner.CustomerRepository
	ProviderRepo() partner.ProviderRepository
	ContactRepo() partner.ContactRepository
	AddressRepo() partner.AddressRepository
	CommonDataRepo() partner.CommonDataRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests where the repositories are in-memory mocks.
type NoOpTransactionScope struct {
	customerRepo   partner.CustomerRepository
	providerRepo   partner.ProviderRepository
	contactRepo    partner.ContactRepository
	addressRepo    partner.AddressRepository
	commonDataRepo partner.CommonDataRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customerRepo partner.CustomerRepository,
	providerRepo partner.ProviderRepository,
	contactRepo partner.ContactRepository,
	addressRepo partner.AddressRepository,
	commonDataRepo partner.CommonDataRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customerRepo:   customerRepo,
		providerRepo:   providerRepo,
		contactRepo:    contactRepo,
		addressRepo:    addressRepo,
		commonDataRepo: commonDataRepo,
	}
}

// Execute runs the function without transactional guarantees.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository     { return s.customerRepo }
func (s *NoOpTransactionScope) ProviderRepo() partner.ProviderRepository     { return s.providerRepo }
func (s *NoOpTransactionScope) ContactRepo() partner.ContactRepository       { return s.contactRepo }
func (s *NoOpTransactionScope) AddressRepo() partner.AddressRepository       { return s.addressRepo }
func (s *NoOpTransactionScope) CommonDataRepo() partner.CommonDataRepository { return s.commonDataRepo }
