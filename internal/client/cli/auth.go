package cli

import (
	"context"

	"github.com/dmitrijs2005/gophprofile/internal/client/forms"
	"github.com/dmitrijs2005/gophprofile/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// errorOrder is the order in which field errors are printed.
var errorOrder = []string{
	forms.FieldName,
	forms.FieldEmail,
	forms.FieldPassword,
	forms.FieldConfirmPassword,
	forms.FieldDegreeTitle,
	forms.FieldGraduationYear,
	forms.FieldCurrentPassword,
	forms.FieldNewPassword,
	"form",
}

func (a *App) ask(key string) (string, error) {
	return getSimpleText(a.reader, a.tr.T(key), a.out)
}

// askPassword reads a password and returns it as a string. The raw input
// buffer is wiped.
func (a *App) askPassword(key string) (string, error) {
	pw, err := getPassword(a.reader, a.tr.T(key), a.out)
	if err != nil {
		return "", err
	}
	defer wipe(pw)
	return string(pw), nil
}

func (a *App) printErrors(errs forms.Errors) {
	a.println(a.tr.T("error.validation-failed"))
	for _, field := range errorOrder {
		if msg, ok := errs[field]; ok {
			a.println("  - " + msg)
		}
	}
}

// report prints the outcome of a coordinator operation.
func (a *App) report(res session.Result, okKey string) error {
	if !res.Success {
		a.println(res.Error)
		return res.Err()
	}
	a.println(a.tr.T(okKey))
	return nil
}

// Register prompts for the registration form, validates it and creates the
// account.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println(a.tr.T("cli.already_signed"))
		return nil
	}

	var (
		f   forms.RegisterForm
		err error
	)
	if f.Name, err = a.ask("cli.prompt.name"); err != nil {
		return err
	}
	if f.Email, err = a.ask("cli.prompt.email"); err != nil {
		return err
	}
	if f.DegreeTitle, err = a.ask("cli.prompt.degree"); err != nil {
		return err
	}
	if f.GraduationYear, err = a.ask("cli.prompt.year"); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("cli.prompt.password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.askPassword("cli.prompt.confirm"); err != nil {
		return err
	}

	if errs := a.validator.ValidateRegister(f); !errs.Valid() {
		a.printErrors(errs)
		return nil
	}

	res := a.accounts.Register(ctx, f.Email, f.Password, f.ToProfileFields())
	return a.report(res, "cli.register.ok")
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println(a.tr.T("cli.already_signed"))
		return nil
	}

	var (
		f   forms.LoginForm
		err error
	)
	if f.Email, err = a.ask("cli.prompt.email"); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("cli.prompt.password"); err != nil {
		return err
	}

	if errs := a.validator.ValidateLogin(f); !errs.Valid() {
		a.printErrors(errs)
		return nil
	}

	res := a.accounts.Login(ctx, f.Email, f.Password)
	return a.report(res, "cli.login.ok")
}

// Logout signs out. Local state is cleared even when the backend fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(a.tr.T("cli.not_signed_in"))
		return nil
	}
	return a.report(a.accounts.Logout(ctx), "cli.logout.ok")
}
