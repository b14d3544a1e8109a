package supplier

// Config switches individual sources on or off.
type Config struct {
	DigiKeyEnabled  bool `mapstructure:"digikey_enabled" default:"true"`
	MouserEnabled   bool `mapstructure:"mouser_enabled" default:"true"`
	OctopartEnabled bool `mapstructure:"octopart_enabled" default:"true"`
}

// NewSet builds the source set from the API clients. A disabled source, or
// one whose client is nil, is present but reports ErrNotConfigured.
func NewSet(cfg Config, digikey DigiKeyAPI, mouser MouserAPI, octopart OctopartAPI) Set {
	if !cfg.DigiKeyEnabled {
		digikey = nil
	}
	if !cfg.MouserEnabled {
		mouser = nil
	}
	if !cfg.OctopartEnabled {
		octopart = nil
	}
	return Set{
		Primary:    NewDigiKey(digikey),
		Secondary:  NewMouser(mouser),
		Datasheets: NewOctopart(octopart),
	}
}
