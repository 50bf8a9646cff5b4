package session

import (
	"strings"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

type field struct {
	name  string
	value string
}

// requireFields fails on the first empty field.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return client.NewValidationError("missing required field: %s", f.name)
		}
	}
	return nil
}

func trimRegistration(r models.Registration) models.Registration {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	r.AccountType = strings.TrimSpace(r.AccountType)
	r.RegistrationNumber = strings.TrimSpace(r.RegistrationNumber)
	r.Description = strings.TrimSpace(r.Description)
	return r
}

func validateRegistration(r models.Registration) error {
	if err := requireFields(
		field{"name", r.Name},
		field{"email", r.Email},
		field{"password", r.Password},
		field{"account type", r.AccountType},
	); err != nil {
		return err
	}
	if r.IsOrganization() {
		return requireFields(
			field{"cnpj", r.RegistrationNumber},
			field{"description", r.Description},
		)
	}
	return nil
}
