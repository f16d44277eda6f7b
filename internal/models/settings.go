package models

// DefaultBusinessName is shown until the operator saves their own.
const DefaultBusinessName = "My Business"

// Settings is the single configuration record for branding and login.
// It is persisted as one JSON object and replaced as a whole on every save.
type Settings struct {
	BusinessName string `json:"business_name"`
	ContactEmail string `json:"contact_email"`

	// LoginUsername and LoginPassword are unset until the operator configures
	// them. LoginPassword holds a bcrypt hash for records written by this
	// application; older files may still contain a plaintext value.
	LoginUsername string `json:"login_username,omitempty"`
	LoginPassword string `json:"login_password,omitempty"`
}

// DefaultSettings returns the record used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		BusinessName: DefaultBusinessName,
		ContactEmail: "",
	}
}

// HasCredentials reports whether a login username and password are configured.
func (s Settings) HasCredentials() bool {
	return s.LoginUsername != "" && s.LoginPassword != ""
}
