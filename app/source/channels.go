package source

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Channel is one upstream channel to sweep during a refresh cycle.
type Channel struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

type channelsFile struct {
	Channels []Channel `yaml:"channels"`
}

// ChannelCache holds the set of configured channels: the primary channel
// from flags/env plus any listed in the optional YAML channels file.
type ChannelCache struct {
	primaryID string
	filePath  string
	channels  []Channel
	mu        sync.RWMutex
}

func NewChannelCache(primaryID, filePath string) *ChannelCache {
	return &ChannelCache{
		primaryID: primaryID,
		filePath:  filePath,
	}
}

// Run loads and validates the channel set. Channels from the file that
// duplicate the primary channel ID are dropped.
func (cc *ChannelCache) Run() error {
	var channels []Channel

	if cc.primaryID != "" {
		channels = append(channels, Channel{ID: cc.primaryID, Name: "primary", Enabled: true})
	}

	if cc.filePath != "" {
		loaded, err := cc.parseFile(cc.filePath)
		if err != nil {
			return err
		}

		seen := map[string]bool{cc.primaryID: cc.primaryID != ""}
		for _, ch := range loaded {
			if seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
			channels = append(channels, ch)
		}
	}

	if len(channels) == 0 {
		return fmt.Errorf("no channels configured")
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.channels = channels

	return nil
}

// GetEnabled returns the enabled channels in configuration order.
func (cc *ChannelCache) GetEnabled() []Channel {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make([]Channel, 0, len(cc.channels))
	for _, ch := range cc.channels {
		if ch.Enabled {
			enabled = append(enabled, ch)
		}
	}
	return enabled
}

func (cc *ChannelCache) GetChannelCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.channels)
}

func (cc *ChannelCache) parseFile(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels file: %w", err)
	}

	var parsed channelsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse channels YAML: %w", err)
	}

	for i := range parsed.Channels {
		if parsed.Channels[i].ID == "" {
			return nil, fmt.Errorf("channel at index %d is missing an id", i)
		}
		if parsed.Channels[i].Name == "" {
			parsed.Channels[i].Name = parsed.Channels[i].ID
		}
	}

	return parsed.Channels, nil
}
