package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// hostsDocument is the YAML layout shared with the menu-bar plugin:
//
//	servers:
//	  gpu1:
//	    host: gpu1.example.org
//	    label: GPU cluster
type hostsDocument struct {
	Servers map[string]Host `yaml:"servers"`
}

// LoadHostsFile reads a YAML hosts file and returns its servers keyed by handle.
func LoadHostsFile(path string) (map[string]Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hosts file: %w", err)
	}
	var doc hostsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse hosts file %s: %w", path, err)
	}
	if doc.Servers == nil {
		return map[string]Host{}, nil
	}
	return doc.Servers, nil
}
