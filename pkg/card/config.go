package card

import (
	"encoding/json"
	"os"
	"strings"
)

// Config is the persisted configuration document: an optional API token
// and, once calibration has been applied at least once, the full
// coordinate snapshot.
type Config struct {
	Token  string
	Coords map[Field]Rect
}

type configFile struct {
	APIToken string         `json:"api_token,omitempty"`
	Token    string         `json:"token,omitempty"`
	Coords   map[Field]Rect `json:"coords,omitempty"`
}

// LoadConfig reads the configuration from path. It never fails: a missing
// file, unreadable JSON or an empty token all degrade to a zero-value
// config, deferring the fatal decision to the caller.
func LoadConfig(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var raw configFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}
	}
	token := strings.TrimSpace(raw.APIToken)
	if token == "" {
		token = strings.TrimSpace(raw.Token)
	}
	return Config{Token: token, Coords: raw.Coords}
}

// SaveConfig writes the token and coordinate snapshot to path as pretty
// JSON, overwriting any previous file. Save followed by LoadConfig
// round-trips every rectangle exactly.
func SaveConfig(path, token string, coords map[Field]Rect) error {
	raw := configFile{APIToken: strings.TrimSpace(token), Coords: coords}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
