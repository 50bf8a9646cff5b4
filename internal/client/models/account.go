package models

// AccountTypeOrganization is the account type that additionally requires a
// registration number (CNPJ) and a description.
const AccountTypeOrganization = "ONG"

// Registration holds the sign-up form fields.
type Registration struct {
	Name               string
	Email              string
	Password           string
	AccountType        string
	RegistrationNumber string
	Description        string
}

// IsOrganization reports whether the registration is for an organization.
func (r Registration) IsOrganization() bool {
	return r.AccountType == AccountTypeOrganization
}

// Profile is the identity record returned by the backend for the current
// user.
type Profile struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Type  string `json:"tipo"`
}
