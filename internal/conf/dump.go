package conf

import (
	"gopkg.in/yaml.v3"
)

const redacted = "[REDACTED]"

// ToYAML renders the effective settings with secrets redacted. Keys match
// the viper keys, so the output can be used as a config.yaml.
func (s *Settings) ToYAML() ([]byte, error) {
	out := *s
	if out.Output.Database.MySQL.Password != "" {
		out.Output.Database.MySQL.Password = redacted
	}
	return yaml.Marshal(&out)
}
