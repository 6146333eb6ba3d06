package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

// FuzzConfigParse ensures malformed YAML never panics and that a parsed
// config can always be validated and serialized again.
func FuzzConfigParse(f *testing.F) {
	f.Add(`dashboard:
  source:
    location: data.csv
`)
	f.Add(`dashboard:
  brackets:
    attendance:
      order: ["0%-19%", "80%-100%"]
      midpoints:
        0%-19%: 10
`)
	f.Add(`dashboard:
  aggregation:
    unobserved: blank
  server:
    addr: ":9090"
    cors_origins: ["*"]
`)
	f.Add(`dashboard: [`)
	f.Add(``)
	f.Add("\x00\x01")
	f.Add(`dashboard:
  source:
    timeout_sec: not-a-number
`)

	f.Fuzz(func(t *testing.T, data string) {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal([]byte(data), cfg); err != nil {
			return
		}
		_ = cfg.Validate()
		_ = cfg.FillUnobserved()
		if _, err := yaml.Marshal(cfg); err != nil {
			t.Fatalf("marshal after successful unmarshal failed: %v", err)
		}
	})
}
