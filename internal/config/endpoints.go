package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/syntaxstudio/gateway/internal/judge0"
)

// endpointEntry maps a [[endpoints]] table in the endpoints file.
type endpointEntry struct {
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Type     string `toml:"type"`
	Priority int    `toml:"priority"`
}

type endpointsFile struct {
	Endpoints []endpointEntry `toml:"endpoints"`
}

// LoadEndpointsFile parses a TOML endpoints file into the endpoint list
// passed to the registry. Every entry must carry a url, host, known type
// and positive priority.
func LoadEndpointsFile(path string) ([]judge0.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	var file endpointsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse endpoints file %s: %w", path, err)
	}
	if len(file.Endpoints) == 0 {
		return nil, fmt.Errorf("endpoints file %s: no endpoints defined", path)
	}

	eps := make([]judge0.Endpoint, 0, len(file.Endpoints))
	for i, e := range file.Endpoints {
		if e.URL == "" {
			return nil, fmt.Errorf("endpoints file %s: entry %d: url is required", path, i)
		}
		if e.Host == "" {
			return nil, fmt.Errorf("endpoints file %s: entry %d: host is required", path, i)
		}
		typ := judge0.EndpointType(e.Type)
		if typ != judge0.TypeRapidAPI && typ != judge0.TypeCE {
			return nil, fmt.Errorf("endpoints file %s: entry %d: unknown type %q", path, i, e.Type)
		}
		if e.Priority <= 0 {
			return nil, fmt.Errorf("endpoints file %s: entry %d: priority must be positive", path, i)
		}
		eps = append(eps, judge0.Endpoint{
			URL:      e.URL,
			Host:     e.Host,
			Type:     typ,
			Priority: e.Priority,
		})
	}

	return eps, nil
}
