package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jobmeta/metastore"
)

// profile is the optional YAML file carrying metastore connection
// settings, so operators don't repeat credentials on every invocation.
type profile struct {
	Connect  string            `yaml:"connect"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Driver   string            `yaml:"driver"`
	Options  map[string]string `yaml:"options"` // extra descriptor keys, passed through
}

// loadProfile reads a profile file. A missing path returns an empty
// profile, not an error.
func loadProfile(path string) (*profile, error) {
	if path == "" {
		return &profile{}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// buildDescriptor merges profile values and command line flags into a
// descriptor. Flags win over the profile; empty values are left out so
// backends select on key presence.
func buildDescriptor(p *profile, connect, user, password, driver string) metastore.Descriptor {
	desc := metastore.Descriptor{}
	for k, v := range p.Options {
		desc[k] = v
	}

	set := func(key, flagVal, profileVal string) {
		switch {
		case flagVal != "":
			desc[key] = flagVal
		case profileVal != "":
			desc[key] = profileVal
		}
	}
	set(metastore.ConnectKey, connect, p.Connect)
	set(metastore.UsernameKey, user, p.User)
	set(metastore.PasswordKey, password, p.Password)
	set(metastore.DriverKey, driver, p.Driver)
	return desc
}
