package syncer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mapwize-api/core/models"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath guesses the manifest format from a file or object name.
func FormatFromPath(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadManifest extracts the objects of kind from a manifest and returns them as a
// JSON array. The document is either a sequence of objects or a mapping from kind
// names (singular or plural) to sequences.
func LoadManifest(kind models.Kind, data []byte, format string) (json.RawMessage, error) {
	var doc any
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml manifest: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	var objects []any
	switch v := doc.(type) {
	case []any:
		objects = v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sections := make(map[models.Kind]string, len(keys))
		for _, key := range keys {
			k, err := models.ParseKind(key)
			if err != nil {
				continue
			}
			if prev, ok := sections[k]; ok {
				return nil, fmt.Errorf("manifest sections %q and %q both describe %s", prev, key, k)
			}
			sections[k] = key
		}

		key, found := sections[kind]
		if !found {
			return nil, fmt.Errorf("manifest has no %s section", kind)
		}
		list, ok := v[key].([]any)
		if !ok {
			return nil, fmt.Errorf("manifest section %q is not a list", key)
		}
		objects = list
	default:
		return nil, fmt.Errorf("manifest must be a list of objects or a mapping of kinds")
	}

	if objects == nil {
		objects = []any{}
	}
	raw, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s manifest: %w", kind, err)
	}
	return raw, nil
}
