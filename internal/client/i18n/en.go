package i18n

var enMessages = map[string]string{
	"auth/email-already-in-use":   "This email is already registered",
	"auth/invalid-email":          "The email address is not valid",
	"auth/operation-not-allowed":  "Operation not allowed",
	"auth/weak-password":          "Password must be at least 6 characters long",
	"auth/user-disabled":          "This account has been disabled",
	"auth/user-not-found":         "There is no account with this email",
	"auth/wrong-password":         "Wrong password",
	"auth/invalid-credential":     "Invalid credentials",
	"auth/too-many-requests":      "Too many failed attempts. Try again later",
	"auth/requires-recent-login":  "This operation requires a recent sign-in",
	"auth/network-request-failed": "Network error. Check your connection and try again",
	"auth/user-token-expired":     "Your session has expired. Sign in again",

	"error.network-offline":          "You are offline. Check your connection and try again",
	"error.invalid-credentials":      "Invalid credentials",
	"error.account-exists":           "This email is already registered",
	"error.invalid-email":            "The email address is not valid",
	"error.weak-password":            "Password must be at least 6 characters long",
	"error.too-many-attempts":        "Too many failed attempts. Try again later",
	"error.reauth-required":          "This operation requires a recent sign-in",
	"error.current-password-missing": "Enter your current password to change it",
	"error.unauthenticated":          "No user is signed in",
	"error.validation-failed":        "Please fix the errors in the form",
	"error.credentials-required":     "Email and password are required",
	"error.unknown":                  "An unexpected error occurred",

	"form.name.required":                 "Name is required",
	"form.name.min":                      "Name must be at least %d characters long",
	"form.email.required":                "Email is required",
	"form.email.emailshape":              "The email address is not valid",
	"form.password.required":             "Password is required",
	"form.password.min":                  "Password must be at least %d characters long",
	"form.confirmPassword.required":      "Confirm your password",
	"form.confirmPassword.eqfield":       "Passwords do not match",
	"form.degreeTitle.required":          "Degree title is required",
	"form.graduationYear.required":       "Graduation year is required",
	"form.graduationYear.gradyear":       "Year must be between %s and %s",
	"form.newPassword.min":               "New password must be at least %d characters long",
	"form.currentPassword.required_with": "Enter your current password to change it",
	"form.invalid":                       "Invalid value",

	"cli.welcome":           "Welcome to GophProfile (type 'help' for commands)",
	"cli.help.anonymous":    "Available commands: register, login, status, exit",
	"cli.help.signed_in":    "Available commands: profile, edit, logout, status, exit",
	"cli.unknown_command":   "Unknown command: %s",
	"cli.bye":               "Bye!",
	"cli.prompt.name":       "Name",
	"cli.prompt.email":      "Email",
	"cli.prompt.degree":     "Degree title",
	"cli.prompt.year":       "Graduation year",
	"cli.prompt.password":   "Password: ",
	"cli.prompt.confirm":    "Confirm password: ",
	"cli.prompt.current":    "Current password: ",
	"cli.prompt.new":        "New password (empty to keep it): ",
	"cli.keep_hint":         "(Enter to keep: %s)",
	"cli.register.ok":       "Registration successful",
	"cli.login.ok":          "Signed in",
	"cli.logout.ok":         "Signed out",
	"cli.edit.ok":           "Profile updated",
	"cli.edit.no_changes":   "Nothing to save",
	"cli.profile.none":      "No profile loaded",
	"cli.not_signed_in":     "Sign in first",
	"cli.already_signed":    "A session is already active",
	"cli.mode.online":       "online",
	"cli.mode.offline":      "offline",
	"cli.mode.initializing": "starting",
}
