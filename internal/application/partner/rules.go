package partner

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

func contactRules() []validation.Rule {
	return []validation.Rule{
		validation.Required("name"),
		validation.Length("name", 1, 255),
		validation.Enum("type", "primary", "billing", "other"),
		validation.Email("email"),
		validation.Length("phone", 0, 20),
	}
}

func addressRules() []validation.Rule {
	return []validation.Rule{
		validation.Required("street"),
		validation.Length("street", 1, 255),
		validation.Length("city", 0, 100),
		validation.Length("state", 0, 50),
		validation.Length("zip_code", 0, 20),
	}
}

func commonDataRules(areas validation.Checker) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("legal_name", 0, 255),
		validation.Length("trade_name", 0, 255),
		validation.Length("document", 0, 32),
	}
	if areas != nil {
		rules = append(rules, validation.ReferencesGlobal("area_of_activity_id", areas))
	}
	return rules
}

// validateChildren evaluates every nested payload of a composite input
// and folds the failures into the parent's violations under prefixed
// field names ("contacts.0.name"). A checker fault aborts evaluation.
func validateChildren(ctx context.Context, tenantID int64, in CompositeInput, areas validation.Checker, into *validation.Violations) error {
	for i, contact := range in.Contacts {
		v, err := validation.Evaluate(ctx, crud.Sanitize(contact), &tenantID, 0, contactRules())
		if err != nil {
			return err
		}
		into.Merge(fmt.Sprintf("contacts.%d.", i), v)
	}
	for i, address := range in.Addresses {
		v, err := validation.Evaluate(ctx, crud.Sanitize(address), &tenantID, 0, addressRules())
		if err != nil {
			return err
		}
		into.Merge(fmt.Sprintf("addresses.%d.", i), v)
	}
	if in.Common != nil {
		v, err := validation.Evaluate(ctx, crud.Sanitize(in.Common), &tenantID, 0, commonDataRules(areas))
		if err != nil {
			return err
		}
		into.Merge("common.", v)
	}
	return nil
}

// CompositeInput is the payload of a composite partner create or
// update: the parent's own fields plus its nested children. A nil
// child slice on update leaves that relation untouched; a non-nil one
// replaces it wholesale.
type CompositeInput struct {
	Data      shared.Fields
	Contacts  []shared.Fields
	Addresses []shared.Fields
	Common    shared.Fields
}

// buildContact maps a validated payload onto a contact row.
func buildContact(tenantID int64, data shared.Fields) *partner.Contact {
	return &partner.Contact{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Type:        contactTypeOrDefault(data.String("type")),
		Name:        data.String("name"),
		Email:       data.String("email"),
		Phone:       data.String("phone"),
	}
}

func buildAddress(tenantID int64, data shared.Fields) *partner.Address {
	return &partner.Address{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Street:      data.String("street"),
		Number:      data.String("number"),
		District:    data.String("district"),
		City:        data.String("city"),
		State:       data.String("state"),
		ZipCode:     data.String("zip_code"),
	}
}

func buildCommonData(tenantID int64, data shared.Fields) *partner.CommonData {
	common := &partner.CommonData{
		TenantOwned: shared.NewTenantOwned(tenantID),
		LegalName:   data.String("legal_name"),
		TradeName:   data.String("trade_name"),
		Document:    data.String("document"),
		StateReg:    data.String("state_reg"),
	}
	if areaID, ok := data.Int64("area_of_activity_id"); ok {
		common.AreaOfActivityID = &areaID
	}
	return common
}

func contactTypeOrDefault(value string) partner.ContactType {
	if value == "" {
		return partner.ContactTypePrimary
	}
	return partner.ContactType(value)
}
