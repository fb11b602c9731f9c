// Package forms validates the login, register and edit forms before they
// reach the session coordinator. Validation is pure: it returns a map of field
// name to localized message and never touches the network.
package forms

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// Field names used as Errors keys.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldDegreeTitle     = "degreeTitle"
	FieldGraduationYear  = "graduationYear"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// Errors maps a field name to its message. Only the first failing rule of a
// field is reported. An empty map means the form is valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Name            string `form:"name" validate:"required,namelen"`
	Email           string `form:"email" validate:"required,emailshape"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
	DegreeTitle     string `form:"degreeTitle" validate:"required"`
	GraduationYear  string `form:"graduationYear" validate:"required,gradyear"`
}

// EditForm edits an existing profile. Email is shown but never validated or
// submitted.
type EditForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"-"`
	DegreeTitle     string `form:"degreeTitle"`
	GraduationYear  string `form:"graduationYear" validate:"omitempty,gradyear"`
	CurrentPassword string `form:"currentPassword" validate:"required_with=NewPassword"`
	NewPassword     string `form:"newPassword" validate:"omitempty,min=6"`
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// NewEditForm pre-fills an edit form from the stored profile.
func NewEditForm(p *models.ProfileRecord) EditForm {
	if p == nil {
		return EditForm{}
	}
	return EditForm{
		Name:           p.DisplayName,
		Email:          p.Email,
		DegreeTitle:    p.DegreeTitle,
		GraduationYear: yearString(p.GraduationYear),
	}
}

// HasChanges reports whether submitting f would change anything compared to
// original.
func HasChanges(original *models.ProfileRecord, f EditForm) bool {
	if original == nil {
		return true
	}
	f = f.trimmed()
	return f.Name != original.DisplayName ||
		f.DegreeTitle != original.DegreeTitle ||
		f.GraduationYear != yearString(original.GraduationYear) ||
		f.NewPassword != ""
}

func (f RegisterForm) ToProfileFields() models.ProfileFields {
	f = f.trimmed()
	return models.ProfileFields{
		Name:           f.Name,
		DegreeTitle:    f.DegreeTitle,
		GraduationYear: f.GraduationYear,
	}
}

func (f EditForm) ToProfileFields() models.ProfileFields {
	f = f.trimmed()
	return models.ProfileFields{
		Name:            f.Name,
		DegreeTitle:     f.DegreeTitle,
		GraduationYear:  f.GraduationYear,
		CurrentPassword: f.CurrentPassword,
	}
}

// Passwords are kept verbatim; only an all-blank new password counts as absent.

func (f LoginForm) trimmed() LoginForm {
	f.Email = strings.TrimSpace(f.Email)
	return f
}

func (f RegisterForm) trimmed() RegisterForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.DegreeTitle = strings.TrimSpace(f.DegreeTitle)
	f.GraduationYear = strings.TrimSpace(f.GraduationYear)
	return f
}

func (f EditForm) trimmed() EditForm {
	f.Name = strings.TrimSpace(f.Name)
	f.DegreeTitle = strings.TrimSpace(f.DegreeTitle)
	f.GraduationYear = strings.TrimSpace(f.GraduationYear)
	if strings.TrimSpace(f.NewPassword) == "" {
		f.NewPassword = ""
	}
	return f
}
