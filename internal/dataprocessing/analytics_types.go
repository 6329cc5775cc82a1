package dataprocessing

import (
	"housingcli/internal/config"
)

// ShareOptions selects the rows that feed MonthlySaleShare.
type ShareOptions struct {
	// BaseRegion is the region whose sales are counted
	BaseRegion string

	// Only years strictly between YearAfter and YearBefore are counted
	YearAfter  int
	YearBefore int
}

// DefaultShareOptions returns the metro-wide share window.
func DefaultShareOptions() ShareOptions {
	return ShareOptions{
		BaseRegion: config.DefaultBaseRegion,
		YearAfter:  config.DefaultShareYearAfter,
		YearBefore: config.DefaultShareYearBefore,
	}
}

// ShareOptionsFrom builds share options from the analysis configuration.
func ShareOptionsFrom(ac config.AnalysisConfig) ShareOptions {
	opts := DefaultShareOptions()
	if ac.BaseRegion != "" {
		opts.BaseRegion = ac.BaseRegion
	}
	if ac.ShareYearAfter != 0 {
		opts.YearAfter = ac.ShareYearAfter
	}
	if ac.ShareYearBefore != 0 {
		opts.YearBefore = ac.ShareYearBefore
	}
	return opts
}

// includes reports whether year lies inside the share window.
func (o ShareOptions) includes(year int) bool {
	return year > o.YearAfter && year < o.YearBefore
}
