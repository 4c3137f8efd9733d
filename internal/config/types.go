package config

// Config is the bot configuration, merged from the organization-level
// config repo, the repository-level config file, and environment
// overrides.
type Config struct {
	Keys             KeysConfig   `yaml:"keys"`
	Provider         string       `yaml:"provider"`
	Model            string       `yaml:"model"`
	Temperature      float32      `yaml:"temperature"`
	DisabledCommands []string     `yaml:"disabledCommands"`
	Permit           PermitConfig `yaml:"permit"`
}

// KeysConfig holds model provider credentials.
type KeysConfig struct {
	OpenAI string `yaml:"openai-api-key"`
	Gemini string `yaml:"gemini-api-key"`
}

// PermitConfig holds the payout-permit collaborator endpoints.
type PermitConfig struct {
	SignerURL    string `yaml:"signer-url"`
	ClaimURLBase string `yaml:"claim-url-base"`
	EVMNetworkID int    `yaml:"evm-network-id"`
}

// DefaultConfig returns the configuration used when no config file sets
// a value.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-3.5-turbo-16k",
		Temperature: 0,
		Permit: PermitConfig{
			ClaimURLBase: "http://localhost:8080/",
		},
	}
}

// APIKey returns the credential for the configured provider, or "" when
// none is set.
func (c *Config) APIKey() string {
	if c.Provider == "gemini" {
		return c.Keys.Gemini
	}
	return c.Keys.OpenAI
}
