package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophprofile/internal/client/forms"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// askKeep prompts with the current value as a hint. Empty input keeps it.
func (a *App) askKeep(key, current string) (string, error) {
	prompt := a.tr.T(key)
	if current != "" {
		prompt += " " + a.tr.T("cli.keep_hint", current)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) field(key, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(a.out, "%s: %s\n", a.tr.T(key), value)
}

// Profile prints the cached profile of the signed-in user.
func (a *App) Profile(context.Context) error {
	if !a.isLoggedIn() {
		a.println(a.tr.T("cli.not_signed_in"))
		return nil
	}

	p := a.accounts.CurrentProfile()
	if p == nil {
		a.println(a.tr.T("cli.profile.none"))
		return nil
	}

	year := ""
	if p.GraduationYear != 0 {
		year = strconv.Itoa(p.GraduationYear)
	}
	a.field("cli.prompt.name", p.DisplayName)
	a.field("cli.prompt.email", p.Email)
	a.field("cli.prompt.degree", p.DegreeTitle)
	a.field("cli.prompt.year", year)
	return nil
}

// editBase is the record an edit starts from. Without a cached profile the
// session supplies name and email.
func (a *App) editBase() *models.ProfileRecord {
	if p := a.accounts.CurrentProfile(); p != nil {
		return p
	}
	s := a.accounts.CurrentSession()
	if s == nil {
		return nil
	}
	return &models.ProfileRecord{UserID: s.UserID, Email: s.Email, DisplayName: s.DisplayName}
}

// Edit prompts for profile changes and an optional password change.
func (a *App) Edit(ctx context.Context) error {
	base := a.editBase()
	if base == nil {
		a.println(a.tr.T("cli.not_signed_in"))
		return nil
	}

	f := forms.NewEditForm(base)
	var err error
	if f.Name, err = a.askKeep("cli.prompt.name", f.Name); err != nil {
		return err
	}
	if f.DegreeTitle, err = a.askKeep("cli.prompt.degree", f.DegreeTitle); err != nil {
		return err
	}
	if f.GraduationYear, err = a.askKeep("cli.prompt.year", f.GraduationYear); err != nil {
		return err
	}
	if f.NewPassword, err = a.askPassword("cli.prompt.new"); err != nil {
		return err
	}
	if f.NewPassword != "" {
		if f.CurrentPassword, err = a.askPassword("cli.prompt.current"); err != nil {
			return err
		}
	}

	if errs := a.validator.ValidateEdit(f); !errs.Valid() {
		a.printErrors(errs)
		return nil
	}
	if !forms.HasChanges(base, f) {
		a.println(a.tr.T("cli.edit.no_changes"))
		return nil
	}

	res := a.accounts.UpdateProfile(ctx, f.ToProfileFields(), f.NewPassword)
	return a.report(res, "cli.edit.ok")
}

// Status prints the prompt status line.
func (a *App) Status(context.Context) error {
	a.println(a.getStatus())
	return nil
}
