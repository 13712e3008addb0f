package execctx

import "strings"

// ModuleMetadata describes the running module. It is created once at startup
// and shared read-only by every execution context.
type ModuleMetadata interface {
	ModuleName() string
	SchemaName(tenantID string) string
}

// MetadataConfig loads module metadata from the environment.
type MetadataConfig struct {
	ModuleName string `env:"MODULE_NAME,required"`
}

type moduleMetadata struct {
	name   string
	suffix string
}

// NewModuleMetadata returns metadata for the named module. Tenant schemas are
// named <tenant>_<module> with the module name lowercased and dashes replaced
// by underscores, so tenant "diku" of "mod-orders" maps to "diku_mod_orders".
func NewModuleMetadata(moduleName string) ModuleMetadata {
	return &moduleMetadata{
		name:   moduleName,
		suffix: strings.ReplaceAll(strings.ToLower(strings.TrimSpace(moduleName)), "-", "_"),
	}
}

// MetadataFromConfig is a shorthand for NewModuleMetadata(cfg.ModuleName).
func MetadataFromConfig(cfg MetadataConfig) ModuleMetadata {
	return NewModuleMetadata(cfg.ModuleName)
}

func (m *moduleMetadata) ModuleName() string {
	return m.name
}

func (m *moduleMetadata) SchemaName(tenantID string) string {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return m.suffix
	}
	return tenantID + "_" + m.suffix
}
