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

// ReferenceChecker answers whether any dependent rows reference a
// parent under a tenant. Repositories from other contexts satisfy it
// structurally, so the partner package needs no dependency on them.
type ReferenceChecker interface {
	ExistsByTenant(ctx context.Context, tenantID int64, q shared.Query) (bool, error)
}

// referenceGuard blocks deletion while rows of a dependent entity still
// point at the parent.
type referenceGuard struct {
	name    string
	field   string
	checker ReferenceChecker
}

type customerStrategy struct {
	repo   partner.CustomerRepository
	guards []referenceGuard
}

func (customerStrategy) Label() string { return "customer" }

func (st customerStrategy) New(data shared.Fields, tenantID int64) (*partner.Customer, error) {
	c := partner.NewCustomer(tenantID, data.String("name"), data.String("slug"))
	c.Email = data.String("email")
	c.Phone = data.String("phone")
	c.Notes = data.String("notes")
	if data.Has("status") {
		c.Status = partner.CustomerStatus(data.String("status"))
	}
	return c, nil
}

func (st customerStrategy) Apply(c *partner.Customer, data shared.Fields) error {
	if data.Has("name") {
		c.Name = data.String("name")
	}
	if data.Has("slug") {
		c.Slug = data.String("slug")
	}
	if data.Has("email") {
		c.Email = data.String("email")
	}
	if data.Has("phone") {
		c.Phone = data.String("phone")
	}
	if data.Has("notes") {
		c.Notes = data.String("notes")
	}
	if data.Has("status") {
		c.Status = partner.CustomerStatus(data.String("status"))
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (st customerStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 255),
		validation.Unique("name", st.repo),
		validation.Email("email"),
		validation.Length("phone", 0, 20),
		validation.Enum("status", string(partner.CustomerStatusActive), string(partner.CustomerStatusInactive)),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

func (st customerStrategy) CanDelete(ctx context.Context, c *partner.Customer) (bool, string, error) {
	for _, guard := range st.guards {
		inUse, err := guard.checker.ExistsByTenant(ctx, c.TenantID, shared.Where(guard.field, c.ID))
		if err != nil {
			return false, "", err
		}
		if inUse {
			return false, guard.name, nil
		}
	}
	return true, "", nil
}

// CustomerService manages customers together with their contacts,
// addresses and common data. Composite writes run inside one
// transaction scope so a rejected child rolls the parent back too.
type CustomerService struct {
	crud     *crud.TenantService[partner.Customer]
	repo     partner.CustomerRepository
	scope    TransactionScope
	slugs    *slug.Generator
	strategy customerStrategy
	areas    validation.Checker
	logger   *zap.Logger
}

// NewCustomerService creates the customer service. budgets and invoices
// guard deletion: a customer referenced by either cannot be removed.
// areas validates common-data area references and may be nil.
func NewCustomerService(
	repo partner.CustomerRepository,
	scope TransactionScope,
	budgets ReferenceChecker,
	invoices ReferenceChecker,
	areas validation.Checker,
	logger *zap.Logger,
) *CustomerService {
	strategy := customerStrategy{repo: repo}
	if budgets != nil {
		strategy.guards = append(strategy.guards, referenceGuard{name: "budgets", field: "customer_id", checker: budgets})
	}
	if invoices != nil {
		strategy.guards = append(strategy.guards, referenceGuard{name: "invoices", field: "customer_id", checker: invoices})
	}
	return &CustomerService{
		crud:     crud.NewTenantService[partner.Customer](repo, strategy, logger),
		repo:     repo,
		scope:    scope,
		slugs:    slug.NewGenerator(nil),
		strategy: strategy,
		areas:    areas,
		logger:   logger,
	}
}

// Get returns the customer with its children preloaded.
func (s *CustomerService) Get(ctx context.Context, tenantID, id int64) shared.Result[*partner.Customer] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's customers matching the query.
func (s *CustomerService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]partner.Customer] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's customers.
func (s *CustomerService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[partner.Customer]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching customers.
func (s *CustomerService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// FindBySlug returns the customer carrying the slug, or a successful
// nil when none does.
func (s *CustomerService) FindBySlug(ctx context.Context, tenantID int64, slugValue string) shared.Result[*partner.Customer] {
	return s.crud.FindBy(ctx, tenantID, "slug", slugValue)
}

// Create validates the customer and every nested child before touching
// storage, then persists the whole aggregate in one transaction. Any
// child failing validation rejects the entire call.
func (s *CustomerService) Create(ctx context.Context, tenantID int64, in CompositeInput) shared.Result[*partner.Customer] {
	data := crud.Sanitize(in.Data)

	violations, err := validation.Evaluate(ctx, data, &tenantID, 0, s.strategy.Rules(false))
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "create")
	}
	if err := validateChildren(ctx, tenantID, in, s.areas, violations); err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "create")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*partner.Customer](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	if data.String("slug") == "" {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("name"), &tenantID, 0, s.repo)
		if err != nil {
			return crud.Failure[*partner.Customer](s.logger, "customer", err, "create")
		}
		data["slug"] = generated
	}

	customer, err := s.strategy.New(data, tenantID)
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "create")
	}
	for _, payload := range in.Contacts {
		customer.Contacts = append(customer.Contacts, *buildContact(tenantID, crud.Sanitize(payload)))
	}
	for _, payload := range in.Addresses {
		customer.Addresses = append(customer.Addresses, *buildAddress(tenantID, crud.Sanitize(payload)))
	}
	if in.Common != nil {
		customer.Common = buildCommonData(tenantID, crud.Sanitize(in.Common))
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.CustomerRepo().Save(ctx, customer)
	})
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "create")
	}
	return shared.OK(customer, "customer created successfully")
}

// Update looks the customer up under the tenant, validates the payload
// and every supplied child, then applies the parent fields and replaces
// the supplied child collections atomically. A nil child collection is
// left untouched.
func (s *CustomerService) Update(ctx context.Context, tenantID, id int64, in CompositeInput) shared.Result[*partner.Customer] {
	data := crud.Sanitize(in.Data)

	customer, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}

	violations, err := validation.Evaluate(ctx, data, &tenantID, id, s.strategy.Rules(true))
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}
	if err := validateChildren(ctx, tenantID, in, s.areas, violations); err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*partner.Customer](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	if err := s.strategy.Apply(customer, data); err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}

	// Detach preloaded children so the parent save does not touch them;
	// replacement is handled explicitly below.
	customer.Contacts = nil
	customer.Addresses = nil
	customer.Common = nil

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.CustomerRepo().Save(ctx, customer); err != nil {
			return err
		}
		if in.Contacts != nil {
			contacts := make([]partner.Contact, 0, len(in.Contacts))
			for _, payload := range in.Contacts {
				contact := buildContact(tenantID, crud.Sanitize(payload))
				contact.CustomerID = &id
				contacts = append(contacts, *contact)
			}
			if err := replaceOwned(ctx, repos.ContactRepo(), tenantID, "customer_id", id, contacts); err != nil {
				return err
			}
		}
		if in.Addresses != nil {
			addresses := make([]partner.Address, 0, len(in.Addresses))
			for _, payload := range in.Addresses {
				address := buildAddress(tenantID, crud.Sanitize(payload))
				address.CustomerID = &id
				addresses = append(addresses, *address)
			}
			if err := replaceOwned(ctx, repos.AddressRepo(), tenantID, "customer_id", id, addresses); err != nil {
				return err
			}
		}
		if in.Common != nil {
			common := buildCommonData(tenantID, crud.Sanitize(in.Common))
			common.CustomerID = &id
			if err := replaceOwned(ctx, repos.CommonDataRepo(), tenantID, "customer_id", id, []partner.CommonData{*common}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}
	return shared.OK(customer, "customer updated successfully")
}

// Delete removes the customer and its children after the reference
// guard passes. A customer still referenced by budgets or invoices
// yields CONFLICT and nothing is removed.
func (s *CustomerService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*partner.Customer] {
	customer, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "delete")
	}

	ok, blockedBy, err := s.strategy.CanDelete(ctx, customer)
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "delete")
	}
	if !ok {
		return shared.Fail[*partner.Customer](shared.ErrorKindConflict,
			fmt.Sprintf("customer cannot be deleted: it is in use by %s", blockedBy))
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := deleteOwned(ctx, repos.ContactRepo(), tenantID, "customer_id", id); err != nil {
			return err
		}
		if err := deleteOwned(ctx, repos.AddressRepo(), tenantID, "customer_id", id); err != nil {
			return err
		}
		if err := deleteOwned(ctx, repos.CommonDataRepo(), tenantID, "customer_id", id); err != nil {
			return err
		}
		return repos.CustomerRepo().Delete(ctx, customer)
	})
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "delete")
	}
	return shared.OK[*partner.Customer](nil, "customer deleted successfully")
}

// DeleteMany removes the given customers one by one so the reference
// guard and child cleanup apply to each; guarded or missing ids are
// skipped and only actual removals count.
func (s *CustomerService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	var affected int64
	for _, id := range ids {
		if result := s.Delete(ctx, tenantID, id); result.IsSuccess() {
			affected++
		}
	}
	return shared.OK(affected, fmt.Sprintf("%d customer records deleted", affected))
}

// Deactivate marks the customer inactive, keeping its history.
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, id int64) shared.Result[*partner.Customer] {
	return s.setStatus(ctx, tenantID, id, false)
}

// Activate re-enables an inactive customer.
func (s *CustomerService) Activate(ctx context.Context, tenantID, id int64) shared.Result[*partner.Customer] {
	return s.setStatus(ctx, tenantID, id, true)
}

func (s *CustomerService) setStatus(ctx context.Context, tenantID, id int64, active bool) shared.Result[*partner.Customer] {
	customer, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}
	if active {
		customer.Activate()
	} else {
		customer.Deactivate()
	}
	customer.Contacts = nil
	customer.Addresses = nil
	customer.Common = nil
	if err := s.repo.Save(ctx, customer); err != nil {
		return crud.Failure[*partner.Customer](s.logger, "customer", err, "update")
	}
	return shared.OK(customer, "customer updated successfully")
}

// replaceOwned swaps every child row pointing at the owner for the
// freshly built set, inside the caller's transaction.
func replaceOwned[T any](ctx context.Context, repo shared.TenantRepository[T], tenantID int64, ownerField string, ownerID int64, rows []T) error {
	if err := deleteOwned(ctx, repo, tenantID, ownerField, ownerID); err != nil {
		return err
	}
	for i := range rows {
		if err := repo.Save(ctx, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func deleteOwned[T any](ctx context.Context, repo shared.TenantRepository[T], tenantID int64, ownerField string, ownerID int64) error {
	existing, err := repo.FindAllByTenant(ctx, tenantID, shared.Where(ownerField, ownerID))
	if err != nil {
		return err
	}
	for i := range existing {
		if err := repo.Delete(ctx, &existing[i]); err != nil {
			return err
		}
	}
	return nil
}
