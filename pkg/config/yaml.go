package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/goccy/go-yaml"
)

// ConfigBaseName is the base name of the peerlist configuration file without extension.
const ConfigBaseName = "peerlist"

// ConfigExtension is the file extension for the configuration file without the leading dot.
const ConfigExtension = "yaml"

// ConfigName is the filename for the peerlist configuration file.
const ConfigName = ConfigBaseName + "." + ConfigExtension

// ConfigPath returns the configuration file location inside RootDir.
func (c Config) ConfigPath() string {
	return filepath.Join(c.RootDir, ConfigName)
}

// SaveAsYaml writes the configuration to peerlist.yaml in RootDir, with the
// comment tag of every field written above it.
func (c Config) SaveAsYaml() error {
	configPath := c.ConfigPath()

	if err := EnsureRoot(filepath.Dir(configPath)); err != nil {
		return err
	}

	yamlCommentMap := yaml.CommentMap{}
	addComment := func(path string, comment string) {
		yamlCommentMap[path] = []*yaml.Comment{
			yaml.HeadComment(comment),
		}
	}

	var processFields func(t reflect.Type, prefix string)
	processFields = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			yamlTag := field.Tag.Get("yaml")
			if yamlTag == "" || yamlTag == "-" {
				continue
			}

			fieldPath := yamlTag
			if prefix != "" {
				fieldPath = prefix + "." + fieldPath
			}

			if comment := field.Tag.Get("comment"); comment != "" {
				addComment("$."+fieldPath, comment)
			}

			// DurationWrapper is a struct but marshals as text
			if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(DurationWrapper{}) {
				processFields(field.Type, fieldPath)
			}
		}
	}
	processFields(reflect.TypeOf(Config{}), "")

	data, err := yaml.MarshalWithOptions(c, yaml.WithComment(yamlCommentMap))
	if err != nil {
		return fmt.Errorf("error marshaling YAML data: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("error writing %s file: %w", ConfigName, err)
	}

	return nil
}

// EnsureRoot ensures that the root directory exists.
func EnsureRoot(rootDir string) error {
	if rootDir == "" {
		return fmt.Errorf("root directory cannot be empty")
	}

	if err := os.MkdirAll(rootDir, DefaultDirPerm); err != nil {
		return fmt.Errorf("could not create directory %q: %w", rootDir, err)
	}

	return nil
}
