package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dimfu/metronome/metronome"
	"github.com/pkg/errors"
)

// Config is a named set of metronome settings.
type Config struct {
	Key     string  `json:"key"`
	Tempo   int     `json:"tempo"`
	Timesig string  `json:"timesig"`
	Volume  float64 `json:"volume"`
}

func (c Config) Validate() error {
	if c.Key == "" {
		return errors.New("preset name is empty")
	}
	if !metronome.ValidBPM(c.Tempo) {
		return errors.Wrapf(metronome.ErrBPMOutOfRange, "preset %q has tempo %d", c.Key, c.Tempo)
	}
	if _, err := ValidTimeSig(c.Timesig); err != nil {
		return errors.Wrapf(err, "preset %q", c.Key)
	}
	if c.Volume < 0 || c.Volume > 100 {
		return errors.Errorf("preset %q volume %v is outside 0-100", c.Key, c.Volume)
	}
	return nil
}

type ConfigManager struct {
	Config     []Config
	ConfigPath string
}

func DefaultConfigPath() string {
	return filepath.Join(UserHomeDir(), PRESETS_FILE)
}

// LoadConfigManager reads the presets file at path. A missing or empty file
// yields no presets.
func LoadConfigManager(path string) (*ConfigManager, error) {
	cm := &ConfigManager{
		ConfigPath: path,
		Config:     []Config{},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cm, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading presets")
	}
	if len(data) == 0 {
		return cm, nil
	}
	if err := json.Unmarshal(data, &cm.Config); err != nil {
		return nil, errors.Wrapf(err, "parsing presets in %s", path)
	}
	return cm, nil
}

func (cm *ConfigManager) GetConfigByKey(key string) *Config {
	for i := range cm.Config {
		if cm.Config[i].Key == key {
			return &cm.Config[i]
		}
	}
	return nil
}

func (cm *ConfigManager) WriteConfig() error {
	newConf, err := json.MarshalIndent(cm.Config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding presets")
	}

	if err := os.WriteFile(cm.ConfigPath, newConf, 0644); err != nil {
		return errors.Wrap(err, "writing presets")
	}
	return nil
}

func (cm *ConfigManager) CreateConf(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cm.GetConfigByKey(cfg.Key) != nil {
		return errors.Errorf("preset %q already exists", cfg.Key)
	}

	cm.Config = append(cm.Config, cfg)
	return cm.WriteConfig()
}

func (cm *ConfigManager) DeleteConfig(key string) error {
	if cm.GetConfigByKey(key) == nil {
		return errors.Errorf("preset %q not found", key)
	}

	kept := cm.Config[:0]
	for _, config := range cm.Config {
		if config.Key != key {
			kept = append(kept, config)
		}
	}
	cm.Config = kept

	return cm.WriteConfig()
}
