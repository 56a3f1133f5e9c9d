package nanoui

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo carries application identity used for window titles and menu
// labels. It is typically loaded from an appinfo.yaml shipped next to
// the binary.
type AppInfo struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Identifier string `yaml:"identifier"`
}

// LoadAppInfo reads application identity from a YAML file.
func LoadAppInfo(path string) (AppInfo, error) {
	var info AppInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("nanoui: read app info: %w", err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("nanoui: parse app info %s: %w", path, err)
	}
	return info, nil
}

// String renders "Name Version" for title bars.
func (i AppInfo) String() string {
	if i.Version == "" {
		return i.Name
	}
	return i.Name + " " + i.Version
}
