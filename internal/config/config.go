// Package config reads the optional YAML configuration file and exposes it
// to kong as a resolver, so every flag can be set from the file.
//
//	config: ~/.config/pomohabit/pomohabit.db
//	debug: true
//	notify: false
//
// Nested maps are flattened with "-", so {habit: {description: x}} sets
// --habit-description. Flags given on the command line or through their
// environment variable take precedence over the file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLLoader is a kong.ConfigurationLoader for YAML files.
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values, err := Decode(r)
	if err != nil {
		return nil, err
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (interface{}, error) {
		if v, ok := values[flag.Name]; ok {
			return v, nil
		}
		if v, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
			return v, nil
		}
		return nil, nil
	}
	return f, nil
}

// Decode parses a YAML document into flattened flag-name keys with string
// values. An empty document yields an empty map.
func Decode(r io.Reader) (map[string]string, error) {
	var raw map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	values := make(map[string]string)
	if err := flatten("", raw, values); err != nil {
		return nil, err
	}
	return values, nil
}

func flatten(prefix string, in map[string]interface{}, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case []interface{}:
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = fmt.Sprint(item)
			}
			out[key] = strings.Join(parts, ",")
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}

// Keys returns the flattened keys of values, sorted.
func Keys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileFromArgs returns the --config-file value in args, or def. It runs
// before kong parses so the file can feed the parser.
func FileFromArgs(args []string, def string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config-file="); ok {
			return v
		}
		if arg == "--config-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if env := os.Getenv("POMOHABIT_CONFIG_FILE"); env != "" {
		return env
	}
	return def
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
