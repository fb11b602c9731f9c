package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_StructRoundTrip(t *testing.T) {
	a := Account{UserID: "u1", Email: "a@b.co", DisplayName: "Ana", IDToken: "t", RefreshToken: "r"}
	assert.Equal(t, a, DecodeAccount(a.Struct()))
}

func TestString_MissingOrNil(t *testing.T) {
	assert.Equal(t, "", String(nil, FieldEmail))
	assert.Equal(t, "", String(Fields(map[string]string{"x": "y"}), FieldEmail))
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/gophprofile.identity.v1.Identity/SignIn", FullMethod(SignIn))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(CodeWrongPassword))
	assert.False(t, IsCode("auth/"))
	assert.False(t, IsCode("boom"))
}

func TestServiceDesc_ListsEveryMethod(t *testing.T) {
	var names []string
	for _, m := range ServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.ElementsMatch(t, []string{SignUp, SignIn, SignOut, UpdateProfile, ChangePassword, Reauthenticate, RefreshToken}, names)
}
