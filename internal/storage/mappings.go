package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"netparental/internal/models"
)

// LoadDevices reads a username -> MAC mapping file.
// .yaml/.yml files are YAML, anything else is JSON.
func LoadDevices(path string) (models.DeviceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.DeviceMap{}, fmt.Errorf("read devices file: %w", err)
	}

	devices := make(map[string]string)
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &devices); err != nil {
			return models.DeviceMap{}, fmt.Errorf("parse devices file %s: %w", path, err)
		}
		return models.NewDeviceMap(devices), nil
	}

	root, err := parseJSONObject(path, data)
	if err != nil {
		return models.DeviceMap{}, err
	}
	root.ForEach(func(key, value gjson.Result) bool {
		devices[key.String()] = value.String()
		return true
	})
	return models.NewDeviceMap(devices), nil
}

// LoadProfiles reads a profile name -> {users, days, times} file.
// users may be a comma separated string or a list.
func LoadProfiles(path string) (models.ProfileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ProfileMap{}, fmt.Errorf("read profiles file: %w", err)
	}

	profiles := make(map[string]models.Profile)
	if isYAML(path) {
		var raw map[string]yamlProfile
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.ProfileMap{}, fmt.Errorf("parse profiles file %s: %w", path, err)
		}
		for name, p := range raw {
			profiles[name] = models.Profile{Users: p.Users, Days: p.Days, Times: p.Times}
		}
		return models.NewProfileMap(profiles), nil
	}

	root, err := parseJSONObject(path, data)
	if err != nil {
		return models.ProfileMap{}, err
	}
	root.ForEach(func(key, value gjson.Result) bool {
		profiles[key.String()] = models.Profile{
			Users: jsonUsers(value.Get("users")),
			Days:  value.Get("days").String(),
			Times: value.Get("times").String(),
		}
		return true
	})
	return models.NewProfileMap(profiles), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parseJSONObject(path string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("parse %s: invalid JSON", path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("parse %s: expected a JSON object", path)
	}
	return root, nil
}

func jsonUsers(v gjson.Result) []string {
	if v.IsArray() {
		var users []string
		for _, u := range v.Array() {
			users = append(users, strings.TrimSpace(u.String()))
		}
		return users
	}
	return splitUsers(v.String())
}

func splitUsers(s string) []string {
	var users []string
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	return users
}

type yamlProfile struct {
	Users userList `yaml:"users"`
	Days  string   `yaml:"days"`
	Times string   `yaml:"times"`
}

// userList accepts "A, B" as well as [A, B]
type userList []string

func (u *userList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*u = splitUsers(value.Value)
		return nil
	case yaml.SequenceNode:
		var users []string
		if err := value.Decode(&users); err != nil {
			return err
		}
		*u = users
		return nil
	}
	return fmt.Errorf("line %d: users must be a string or a list", value.Line)
}
