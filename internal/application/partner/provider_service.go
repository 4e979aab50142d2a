package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

type providerStrategy struct {
	repo partner.ProviderRepository
}

func (providerStrategy) Label() string { return "provider" }

func (st providerStrategy) New(data shared.Fields, tenantID int64) (*partner.Provider, error) {
	p := partner.NewProvider(tenantID, data.String("name"), data.String("slug"))
	p.Email = data.String("email")
	p.Phone = data.String("phone")
	p.Notes = data.String("notes")
	if data.Has("status") {
		p.Status = partner.ProviderStatus(data.String("status"))
	}
	return p, nil
}

func (st providerStrategy) Apply(p *partner.Provider, data shared.Fields) error {
	if data.Has("name") {
		p.Name = data.String("name")
	}
	if data.Has("slug") {
		p.Slug = data.String("slug")
	}
	if data.Has("email") {
		p.Email = data.String("email")
	}
	if data.Has("phone") {
		p.Phone = data.String("phone")
	}
	if data.Has("notes") {
		p.Notes = data.String("notes")
	}
	if data.Has("status") {
		p.Status = partner.ProviderStatus(data.String("status"))
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (st providerStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 255),
		validation.Unique("name", st.repo),
		validation.Email("email"),
		validation.Length("phone", 0, 20),
		validation.Enum("status", string(partner.ProviderStatusActive), string(partner.ProviderStatusInactive)),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

// Providers are only ever referenced through their own children, which
// are removed with them, so nothing blocks deletion.
func (st providerStrategy) CanDelete(context.Context, *partner.Provider) (bool, string, error) {
	return true, "", nil
}

// ProviderService manages providers and their nested contacts,
// addresses and common data, mirroring the customer service.
type ProviderService struct {
	crud     *crud.TenantService[partner.Provider]
	repo     partner.ProviderRepository
	scope    TransactionScope
	slugs    *slug.Generator
	strategy providerStrategy
	areas    validation.Checker
	logger   *zap.Logger
}

// NewProviderService creates the provider service. areas validates
// common-data area references and may be nil.
func NewProviderService(repo partner.ProviderRepository, scope TransactionScope, areas validation.Checker, logger *zap.Logger) *ProviderService {
	strategy := providerStrategy{repo: repo}
	return &ProviderService{
		crud:     crud.NewTenantService[partner.Provider](repo, strategy, logger),
		repo:     repo,
		scope:    scope,
		slugs:    slug.NewGenerator(nil),
		strategy: strategy,
		areas:    areas,
		logger:   logger,
	}
}

// Get returns the provider with its children preloaded.
func (s *ProviderService) Get(ctx context.Context, tenantID, id int64) shared.Result[*partner.Provider] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's providers matching the query.
func (s *ProviderService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]partner.Provider] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's providers.
func (s *ProviderService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[partner.Provider]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching providers.
func (s *ProviderService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// FindBySlug returns the provider carrying the slug, or a successful
// nil when none does.
func (s *ProviderService) FindBySlug(ctx context.Context, tenantID int64, slugValue string) shared.Result[*partner.Provider] {
	return s.crud.FindBy(ctx, tenantID, "slug", slugValue)
}

// Create validates the provider and every nested child before touching
// storage, then persists the whole aggregate in one transaction.
func (s *ProviderService) Create(ctx context.Context, tenantID int64, in CompositeInput) shared.Result[*partner.Provider] {
	data := crud.Sanitize(in.Data)

	violations, err := validation.Evaluate(ctx, data, &tenantID, 0, s.strategy.Rules(false))
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "create")
	}
	if err := validateChildren(ctx, tenantID, in, s.areas, violations); err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "create")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*partner.Provider](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	if data.String("slug") == "" {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("name"), &tenantID, 0, s.repo)
		if err != nil {
			return crud.Failure[*partner.Provider](s.logger, "provider", err, "create")
		}
		data["slug"] = generated
	}

	provider, err := s.strategy.New(data, tenantID)
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "create")
	}
	for _, payload := range in.Contacts {
		contact := buildContact(tenantID, crud.Sanitize(payload))
		provider.Contacts = append(provider.Contacts, *contact)
	}
	for _, payload := range in.Addresses {
		address := buildAddress(tenantID, crud.Sanitize(payload))
		provider.Addresses = append(provider.Addresses, *address)
	}
	if in.Common != nil {
		provider.Common = buildCommonData(tenantID, crud.Sanitize(in.Common))
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ProviderRepo().Save(ctx, provider)
	})
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "create")
	}
	return shared.OK(provider, "provider created successfully")
}

// Update applies the parent fields and replaces the supplied child
// collections atomically. A nil child collection is left untouched.
func (s *ProviderService) Update(ctx context.Context, tenantID, id int64, in CompositeInput) shared.Result[*partner.Provider] {
	data := crud.Sanitize(in.Data)

	provider, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "update")
	}

	violations, err := validation.Evaluate(ctx, data, &tenantID, id, s.strategy.Rules(true))
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "update")
	}
	if err := validateChildren(ctx, tenantID, in, s.areas, violations); err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "update")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*partner.Provider](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	if err := s.strategy.Apply(provider, data); err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "update")
	}
	provider.Contacts = nil
	provider.Addresses = nil
	provider.Common = nil

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProviderRepo().Save(ctx, provider); err != nil {
			return err
		}
		if in.Contacts != nil {
			contacts := make([]partner.Contact, 0, len(in.Contacts))
			for _, payload := range in.Contacts {
				contact := buildContact(tenantID, crud.Sanitize(payload))
				contact.ProviderID = &id
				contacts = append(contacts, *contact)
			}
			if err := replaceOwned(ctx, repos.ContactRepo(), tenantID, "provider_id", id, contacts); err != nil {
				return err
			}
		}
		if in.Addresses != nil {
			addresses := make([]partner.Address, 0, len(in.Addresses))
			for _, payload := range in.Addresses {
				address := buildAddress(tenantID, crud.Sanitize(payload))
				address.ProviderID = &id
				addresses = append(addresses, *address)
			}
			if err := replaceOwned(ctx, repos.AddressRepo(), tenantID, "provider_id", id, addresses); err != nil {
				return err
			}
		}
		if in.Common != nil {
			common := buildCommonData(tenantID, crud.Sanitize(in.Common))
			common.ProviderID = &id
			if err := replaceOwned(ctx, repos.CommonDataRepo(), tenantID, "provider_id", id, []partner.CommonData{*common}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "update")
	}
	return shared.OK(provider, "provider updated successfully")
}

// Delete removes the provider and its children in one transaction.
func (s *ProviderService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*partner.Provider] {
	provider, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "delete")
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := deleteOwned(ctx, repos.ContactRepo(), tenantID, "provider_id", id); err != nil {
			return err
		}
		if err := deleteOwned(ctx, repos.AddressRepo(), tenantID, "provider_id", id); err != nil {
			return err
		}
		if err := deleteOwned(ctx, repos.CommonDataRepo(), tenantID, "provider_id", id); err != nil {
			return err
		}
		return repos.ProviderRepo().Delete(ctx, provider)
	})
	if err != nil {
		return crud.Failure[*partner.Provider](s.logger, "provider", err, "delete")
	}
	return shared.OK[*partner.Provider](nil, "provider deleted successfully")
}

// DeleteMany removes the given providers one by one; missing ids are
// skipped and only actual removals count.
func (s *ProviderService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	var affected int64
	for _, id := range ids {
		if result := s.Delete(ctx, tenantID, id); result.IsSuccess() {
			affected++
		}
	}
	return shared.OK(affected, fmt.Sprintf("%d provider records deleted", affected))
}
