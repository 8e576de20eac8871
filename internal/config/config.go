// Package config collects every policy threshold in one explicit
// structure so boundary values can be exercised in tests, plus the
// environment-driven service settings shared by the binaries.
package config

import "os"

// Thresholds holds the numeric contract of the analysis and coaching
// engines. Both components receive it by value; mutating a copy in one
// test cannot leak into another.
type Thresholds struct {
	// Snapshot builder.
	WindowDays        int     // analysis window
	MinSample         int     // below this the snapshot is the insufficient-data sentinel
	RecentWindowDays  int     // short-term trend window
	RecentMinSample   int     // trend only counts with this many recent records
	CriticalRate      float64 // completion rate below this is critical
	RecentCritical    float64 // recent rate below this is critical
	HighRate          float64
	MediumRate        float64
	HourMinSample     int // hour bucket eligibility
	DayMinSample      int // weekday bucket eligibility
	HighEnergyRate    float64
	LowEnergyRate     float64
	EnergyHourCount   int // top/bottom hour set size
	BlockerDays       int // overdue days before a record counts as a blocker
	BlockerLimit      int
	HighCogLoad       int
	StrongRate        float64 // completion rate considered a strength
	SolidRate         float64
	WeakRate          float64 // category rate below this is a warning
	BelowAvgRate      float64 // overall rate below this draws a milder warning
	WeakMinSample     int
	ExcellentRate     float64 // energy category strength cutoff
	WorstDayWarnRate  float64
	RescopeDays       int // blocker age that triggers a re-scope recommendation

	// Policy engine.
	CooldownDays       int
	InterventionSample int // stricter minimum than MinSample
	TriggerBlockers    int
	TriggerWeakRate    float64
	TriggerWeakSample  int

	// Action generation.
	UrgentHorizonDays int
	UrgentLimit       int
	PlanBExtendDays   int
	QuickWinLimit     int
	PauseLimit        int
	ExtendLimit       int
	ExtendDays        int
	FocusLimit        int
	BlockerActions    int
	ChronicDays       int // past this a blocker is suggested for skipping
	TypeActions       int
	StrengthLimit     int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		WindowDays:       30,
		MinSample:        5,
		RecentWindowDays: 7,
		RecentMinSample:  5,
		CriticalRate:     0.3,
		RecentCritical:   0.2,
		HighRate:         0.5,
		MediumRate:       0.7,
		HourMinSample:    3,
		DayMinSample:     2,
		HighEnergyRate:   0.7,
		LowEnergyRate:    0.5,
		EnergyHourCount:  3,
		BlockerDays:      7,
		BlockerLimit:     5,
		HighCogLoad:      4,
		StrongRate:       0.8,
		SolidRate:        0.7,
		WeakRate:         0.4,
		BelowAvgRate:     0.6,
		WeakMinSample:    5,
		ExcellentRate:    0.85,
		WorstDayWarnRate: 0.4,
		RescopeDays:      14,

		CooldownDays:       3,
		InterventionSample: 7,
		TriggerBlockers:    3,
		TriggerWeakRate:    0.3,
		TriggerWeakSample:  5,

		UrgentHorizonDays: 7,
		UrgentLimit:       10,
		PlanBExtendDays:   14,
		QuickWinLimit:     3,
		PauseLimit:        5,
		ExtendLimit:       3,
		ExtendDays:        7,
		FocusLimit:        3,
		BlockerActions:    3,
		ChronicDays:       21,
		TypeActions:       3,
		StrengthLimit:     3,
	}
}

// Config holds the environment of a stride binary.
type Config struct {
	PostgresDSN string
	RedisAddr   string
	Port        string
	FromName    string
	FromAddress string
	EmailAPIKey string
}

func Load() Config {
	return Config{
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		Port:        getenv("PORT", "8080"),
		FromName:    os.Getenv("FROM_NAME"),
		FromAddress: os.Getenv("FROM_ADDRESS"),
		EmailAPIKey: os.Getenv("EMAIL_API_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
