package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nogus/server/internal/models"
)

// MarketProfilesFile is the on-disk layout of the market profile file
type MarketProfilesFile struct {
	Profiles []models.MarketLeasingProfile `json:"market_profiles"`
}

var (
	marketProfiles map[string]models.MarketLeasingProfile
	marketLock     sync.RWMutex
)

// LoadMarketProfiles loads the market leasing profiles from file, replacing
// any previously loaded set
func LoadMarketProfiles(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read market profiles: %v", err)
	}

	var file MarketProfilesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse market profiles: %v", err)
	}

	profiles := make(map[string]models.MarketLeasingProfile, len(file.Profiles))
	for _, p := range file.Profiles {
		if p.Name == "" {
			return fmt.Errorf("market profile without a name")
		}
		profiles[p.Name] = p
	}

	marketLock.Lock()
	defer marketLock.Unlock()
	marketProfiles = profiles
	return nil
}

// SetMarketProfile adds or replaces a single profile
func SetMarketProfile(profile models.MarketLeasingProfile) {
	marketLock.Lock()
	defer marketLock.Unlock()

	if marketProfiles == nil {
		marketProfiles = make(map[string]models.MarketLeasingProfile)
	}
	marketProfiles[profile.Name] = profile
}

// GetMarketProfile returns a copy of the named profile, or nil
func GetMarketProfile(name string) *models.MarketLeasingProfile {
	marketLock.RLock()
	defer marketLock.RUnlock()

	profile, ok := marketProfiles[name]
	if !ok {
		return nil
	}
	return &profile
}

// GetMarketProfiles returns all loaded profiles
func GetMarketProfiles() []models.MarketLeasingProfile {
	marketLock.RLock()
	defer marketLock.RUnlock()

	profiles := make([]models.MarketLeasingProfile, 0, len(marketProfiles))
	for _, p := range marketProfiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

// ResolveMarketProfile fills in an analysis' market profile from the
// registry when only its name was given
func ResolveMarketProfile(input *models.AnalysisInput) error {
	if input.Market != nil || input.MarketProfileName == "" {
		return nil
	}
	profile := GetMarketProfile(input.MarketProfileName)
	if profile == nil {
		return fmt.Errorf("market profile not found: %s", input.MarketProfileName)
	}
	input.Market = profile
	return nil
}
