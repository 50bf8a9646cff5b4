package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Login prompts for credentials and logs in. A successful login navigates
// to the landing view, which greets the user.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	return a.session.Login(ctx, email, password)
}

// Register prompts for the sign-up form. Organizations ("ONG") are also
// asked for their CNPJ and a description.
func (a *App) Register(ctx context.Context, _ []string) error {
	var reg models.Registration
	var err error

	if reg.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if reg.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if reg.Password, err = getPassword(a.reader, "Enter password", a.out); err != nil {
		return err
	}
	if reg.AccountType, err = getSimpleText(a.reader, "Account type (USER or ONG)", a.out); err != nil {
		return err
	}
	reg.AccountType = strings.ToUpper(strings.TrimSpace(reg.AccountType))

	if reg.IsOrganization() {
		if reg.RegistrationNumber, err = getSimpleText(a.reader, "Enter CNPJ", a.out); err != nil {
			return err
		}
		if reg.Description, err = getMultiline(a.reader, "Describe the organization", a.out); err != nil {
			return err
		}
	}

	return a.session.Register(ctx, reg)
}

// Reset sets a new password for an account.
func (a *App) Reset(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	if err := a.session.ResetPassword(ctx, email, password); err != nil {
		return err
	}
	a.printf("Password updated. You can now log in.\n")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	return nil
}

// Whoami prints the identity decoded from the current token.
func (a *App) Whoami(_ context.Context, _ []string) error {
	id, ok := a.session.Identity()
	if !ok {
		a.printf("anonymous\n")
		return nil
	}
	a.printf("%s\n", formatIdentity(id))
	return nil
}

// Profile prints the identity record the backend holds for the user.
func (a *App) Profile(ctx context.Context, _ []string) error {
	return a.gate.Enter(ctx, func() error {
		p, err := a.session.Profile(ctx)
		if err != nil {
			return err
		}
		a.printf("Name:  %s\nEmail: %s\nType:  %s\n", p.Name, p.Email, p.Type)
		return nil
	})
}
