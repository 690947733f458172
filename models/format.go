package models

import "encoding/json"

type SeedingMethod string

const (
	SeedingRandom SeedingMethod = "random"
	SeedingRating SeedingMethod = "rating"
	SeedingManual SeedingMethod = "manual"
	SeedingHybrid SeedingMethod = "hybrid"
	SeedingSnake  SeedingMethod = "snake"
)

type CrossPoolMethod string

const (
	CrossPoolStandard CrossPoolMethod = "standard"
	CrossPoolReverse  CrossPoolMethod = "reverse"
	CrossPoolSnake    CrossPoolMethod = "snake"
)

// FormatType names what a generation call produces.
type FormatType string

const (
	FormatTypeSingleElimination FormatType = "single_elimination"
	FormatTypeDoubleElimination FormatType = "double_elimination"
	FormatTypeRoundRobin        FormatType = "round_robin"
	FormatTypePoolPlay          FormatType = "pool_play"
)

// GenerationSettings are the per-event knobs of the engine.
type GenerationSettings struct {
	Seeding          SeedingMethod     `json:"seeding"`
	BestOf           int               `json:"best_of"`
	FinalsBestOf     int               `json:"finals_best_of"`
	ThirdPlaceMatch  bool              `json:"third_place_match"`
	Consolation      bool              `json:"consolation"`
	PoolCount        int               `json:"pool_count"`
	PoolSize         int               `json:"pool_size"`
	AdvancementCount int               `json:"advancement_count"`
	Tiebreakers      []Tiebreaker      `json:"tiebreakers,omitempty"`
	CrossPoolSeeding CrossPoolMethod   `json:"cross_pool_seeding"`
	PlayoffFormat    EliminationFormat `json:"playoff_format"`
	MaxRounds        *int              `json:"max_rounds,omitempty"`
}

type Format struct {
	Name         string     `json:"name"`
	Type         FormatType `json:"type"`
	SettingsJSON *string    `json:"-"`

	Settings *GenerationSettings `json:"settings,omitempty"`
}

// DefaultSettings are used for any field a format leaves empty.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		Seeding:          SeedingRating,
		BestOf:           1,
		FinalsBestOf:     1,
		AdvancementCount: 2,
		PoolSize:         4,
		Tiebreakers:      append([]Tiebreaker(nil), DefaultTiebreakers...),
		CrossPoolSeeding: CrossPoolStandard,
		PlayoffFormat:    FormatSingleElimination,
	}
}

// GetSettings returns the parsed settings merged over defaults. Settings
// already present on the format take precedence over SettingsJSON.
func (f *Format) GetSettings() (GenerationSettings, error) {
	if f.Settings != nil {
		return f.Settings.WithDefaults(), nil
	}
	if f.SettingsJSON == nil || *f.SettingsJSON == "" {
		return DefaultSettings(), nil
	}
	var settings GenerationSettings
	if err := json.Unmarshal([]byte(*f.SettingsJSON), &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings.WithDefaults(), nil
}

func (s GenerationSettings) WithDefaults() GenerationSettings {
	d := DefaultSettings()
	if s.Seeding == "" {
		s.Seeding = d.Seeding
	}
	if s.BestOf < 1 {
		s.BestOf = d.BestOf
	}
	if s.FinalsBestOf < 1 {
		s.FinalsBestOf = s.BestOf
	}
	if s.AdvancementCount <= 0 {
		s.AdvancementCount = d.AdvancementCount
	}
	if s.PoolCount <= 0 && s.PoolSize <= 0 {
		s.PoolSize = d.PoolSize
	}
	if len(s.Tiebreakers) == 0 {
		s.Tiebreakers = d.Tiebreakers
	}
	if s.CrossPoolSeeding == "" {
		s.CrossPoolSeeding = d.CrossPoolSeeding
	}
	if s.PlayoffFormat == "" {
		s.PlayoffFormat = d.PlayoffFormat
	}
	return s
}
