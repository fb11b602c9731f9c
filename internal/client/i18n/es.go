package i18n

var esMessages = map[string]string{
	// Backend error codes.
	"auth/email-already-in-use":   "El correo electrónico ya está registrado",
	"auth/invalid-email":          "El correo electrónico no es válido",
	"auth/operation-not-allowed":  "Operación no permitida",
	"auth/weak-password":          "La contraseña debe tener al menos 6 caracteres",
	"auth/user-disabled":          "Esta cuenta ha sido deshabilitada",
	"auth/user-not-found":         "No existe una cuenta con este correo electrónico",
	"auth/wrong-password":         "Contraseña incorrecta",
	"auth/invalid-credential":     "Credenciales inválidas",
	"auth/too-many-requests":      "Demasiados intentos fallidos. Intenta más tarde",
	"auth/requires-recent-login":  "Esta operación requiere autenticación reciente",
	"auth/network-request-failed": "Error de red. Verifica tu conexión e intenta de nuevo",
	"auth/user-token-expired":     "Tu sesión ha expirado. Inicia sesión de nuevo",

	// Coordinator error taxonomy.
	"error.network-offline":          "Sin conexión a internet. Verifica tu conexión e intenta de nuevo",
	"error.invalid-credentials":      "Credenciales inválidas",
	"error.account-exists":           "El correo electrónico ya está registrado",
	"error.invalid-email":            "El correo electrónico no es válido",
	"error.weak-password":            "La contraseña debe tener al menos 6 caracteres",
	"error.too-many-attempts":        "Demasiados intentos fallidos. Intenta más tarde",
	"error.reauth-required":          "Esta operación requiere autenticación reciente",
	"error.current-password-missing": "Debes proporcionar tu contraseña actual para cambiarla",
	"error.unauthenticated":          "No hay usuario autenticado",
	"error.validation-failed":        "Por favor corrige los errores en el formulario",
	"error.credentials-required":     "Email y contraseña son requeridos",
	"error.unknown":                  "Ha ocurrido un error inesperado",

	// Form validation.
	"form.name.required":                 "El nombre es requerido",
	"form.name.min":                      "El nombre debe tener al menos %d caracteres",
	"form.email.required":                "El correo electrónico es requerido",
	"form.email.emailshape":              "El correo electrónico no es válido",
	"form.password.required":             "La contraseña es requerida",
	"form.password.min":                  "La contraseña debe tener al menos %d caracteres",
	"form.confirmPassword.required":      "Confirma tu contraseña",
	"form.confirmPassword.eqfield":       "Las contraseñas no coinciden",
	"form.degreeTitle.required":          "El título universitario es requerido",
	"form.graduationYear.required":       "El año de graduación es requerido",
	"form.graduationYear.gradyear":       "El año debe estar entre %s y %s",
	"form.newPassword.min":               "La nueva contraseña debe tener al menos %d caracteres",
	"form.currentPassword.required_with": "Debes proporcionar tu contraseña actual para cambiarla",
	"form.invalid":                       "Valor inválido",

	// CLI.
	"cli.welcome":           "Bienvenido a GophProfile (escribe 'help' para ver los comandos)",
	"cli.help.anonymous":    "Comandos disponibles: register, login, status, exit",
	"cli.help.signed_in":    "Comandos disponibles: profile, edit, logout, status, exit",
	"cli.unknown_command":   "Comando desconocido: %s",
	"cli.bye":               "¡Hasta luego!",
	"cli.prompt.name":       "Nombre",
	"cli.prompt.email":      "Correo electrónico",
	"cli.prompt.degree":     "Título universitario",
	"cli.prompt.year":       "Año de graduación",
	"cli.prompt.password":   "Contraseña: ",
	"cli.prompt.confirm":    "Confirma tu contraseña: ",
	"cli.prompt.current":    "Contraseña actual: ",
	"cli.prompt.new":        "Nueva contraseña (vacío para no cambiarla): ",
	"cli.keep_hint":         "(Enter para conservar: %s)",
	"cli.register.ok":       "Registro exitoso",
	"cli.login.ok":          "Login exitoso",
	"cli.logout.ok":         "Sesión cerrada exitosamente",
	"cli.edit.ok":           "Perfil actualizado exitosamente",
	"cli.edit.no_changes":   "No hay cambios para guardar",
	"cli.profile.none":      "No hay perfil cargado",
	"cli.not_signed_in":     "Primero inicia sesión",
	"cli.already_signed":    "Ya hay una sesión activa",
	"cli.mode.online":       "en línea",
	"cli.mode.offline":      "sin conexión",
	"cli.mode.initializing": "iniciando",
}
