package systemuser

import "time"

// Config holds the system user settings. Fields are populated from the
// environment with the config package.
type Config struct {
	OkapiURL            string        `env:"OKAPI_URL,required"`
	Username            string        `env:"SYSTEM_USER_USERNAME"`
	Password            string        `env:"SYSTEM_USER_PASSWORD"`
	Enabled             bool          `env:"SYSTEM_USER_ENABLED" envDefault:"true"`
	RefreshEnabled      bool          `env:"SYSTEM_USER_REFRESH_ENABLED" envDefault:"true"`
	LookupUserID        bool          `env:"SYSTEM_USER_LOOKUP_ID" envDefault:"true"`
	HTTPTimeout         time.Duration `env:"SYSTEM_USER_HTTP_TIMEOUT" envDefault:"10s"`
	InvalidationChannel string        `env:"SYSTEM_USER_INVALIDATION_CHANNEL" envDefault:"okapikit:system-user:invalidate"`
}

// Validate reports configuration that cannot log in.
// A disabled system user needs no credentials.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
