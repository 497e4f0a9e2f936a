package commands

import (
	"sync"
)

// ConfigPersister serializes read-modify-write cycles on the config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
}

// NewConfigPersister creates a persister for the config file in use.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// NewConfigPersisterForPath creates a persister for an explicit file.
func NewConfigPersisterForPath(path string) *ConfigPersister {
	return &ConfigPersister{path: path}
}

// Update loads the persisted config, applies fn and writes the result back.
// Nothing is written when fn fails.
func (p *ConfigPersister) Update(fn func(config *Config) error) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	path := p.path
	if path == "" {
		resolved, err := configFilePath()
		if err != nil {
			return err
		}

		path = resolved
	}

	config, err := readConfigFile(path)
	if err != nil {
		return err
	}

	err = fn(config)
	if err != nil {
		return err
	}

	return saveConfigStruct(path, config)
}
