package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldEmail      = "email"
	FieldUserID     = "user_id"
	FieldKind       = "error_kind"
	FieldResource   = "resource"
	FieldMessageID  = "message_id"
	FieldExpiresAt  = "expires_at"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentSession    = "session"
	ComponentAuth       = "auth"
	ComponentTokenStore = "token_store"
	ComponentMirror     = "mirror"
	ComponentProfile    = "profile"
	ComponentAPI        = "api"
	ComponentResource   = "resource"
	ComponentStorage    = "storage"
	ComponentChat       = "chat"
)

// Operations defines standard operation names
const (
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpExchange = "exchange"
	OpFetch    = "fetch"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSave     = "save"
	OpRemove   = "remove"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
