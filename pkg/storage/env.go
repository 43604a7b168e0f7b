package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blackcoderx/transformer/pkg/schema"
)

// varPattern matches {{VAR_NAME}} or {{env:VAR_NAME}}
var varPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// LoadEnvironment loads the fallback variables of a collection. The file is
// either an exported environment with a "values" list or a flat key/value
// map, in JSON or YAML. {{env:VAR}} references in string values are
// resolved from the process environment.
func LoadEnvironment(filePath string) (*schema.Environment, error) {
	data, err := LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	var env schema.Environment
	if err := json.Unmarshal(data, &env); err == nil && env.Values != nil {
		resolveValues(env.Values)
		return &env, nil
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	out := EnvironmentFromMap(flat)
	resolveValues(out.Values)
	return out, nil
}

// EnvironmentFromMap builds an environment from a flat key/value map, in
// key order.
func EnvironmentFromMap(m map[string]any) *schema.Environment {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := &schema.Environment{Values: make([]schema.EnvValue, 0, len(keys))}
	for _, k := range keys {
		env.Values = append(env.Values, schema.EnvValue{Key: k, Value: m[k]})
	}
	return env
}

// SaveEnvironment writes env as a flat YAML key/value map.
func SaveEnvironment(env *schema.Environment, filePath string) error {
	if !IsYAML(filePath) {
		filePath = filePath + ".yaml"
	}

	flat := make(map[string]any, len(env.Values))
	for _, v := range env.Values {
		flat[v.Key] = v.Value
	}
	data, err := yaml.Marshal(flat)
	if err != nil {
		return fmt.Errorf("failed to marshal environment: %w", err)
	}
	return os.WriteFile(filePath, data, 0644)
}

func resolveValues(values []schema.EnvValue) {
	for i, v := range values {
		if s, ok := v.Value.(string); ok {
			values[i].Value = resolveEnvRefs(s)
		}
	}
}

// resolveEnvRefs resolves {{env:VAR}} references in a string
func resolveEnvRefs(text string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
		varName = strings.TrimSpace(varName)

		if strings.HasPrefix(varName, "env:") {
			sysVar := strings.TrimPrefix(varName, "env:")
			if val := os.Getenv(sysVar); val != "" {
				return val
			}
		}
		return match
	})
}
