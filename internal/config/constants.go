package config

// Application constants
const (
	AppName = "housing-report"

	// Config file and environment
	EnvPrefix         = "HOUSING"
	DefaultConfigFile = "housing.yaml"

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultOutputDir  = "output"
	DefaultChartsDir  = "charts"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"

	// Input files
	DefaultTransactionsFile = "chicago_housing_all_residential.csv"
	DefaultRatesFile        = "MORTGAGE30US.csv"

	// Output files
	WorkbookFileName = "housing_analysis.xlsx"
	MetricsFileName  = "housing_metrics.prom"

	// Base region of the metro-wide analyses
	DefaultBaseRegion = "Chicago, IL"

	// Years strictly inside (ShareYearAfter, ShareYearBefore) have complete monthly data
	DefaultShareYearAfter  = 2012
	DefaultShareYearBefore = 2019

	// Log outputs
	LogOutputConsole = "console"
	LogOutputFile    = "file"
	LogOutputBoth    = "both"

	// Rendering
	BackendGoChart     = "gochart"
	BackendGonum       = "gonum"
	DefaultChartWidth  = 1024
	DefaultChartHeight = 576
	DefaultChartFormat = "png"
)

// DefaultSideRegions are the sides of the city compared on the first chart.
var DefaultSideRegions = []string{
	"Chicago, IL",
	"Chicago, IL - Central Chicago",
	"Chicago, IL - Far North Side",
	"Chicago, IL - Far Southeast Side",
	"Chicago, IL - Far Southwest Side",
	"Chicago, IL - North Side",
	"Chicago, IL - Northwest Side",
	"Chicago, IL - South Side",
	"Chicago, IL - Southwest Side",
	"Chicago, IL - West Side",
}

// DefaultSideColors pairs positionally with DefaultSideRegions.
var DefaultSideColors = []string{
	"firebrick", "pink", "green", "lawngreen", "olive",
	"skyblue", "purple", "yellow", "orange", "navy",
}

// DefaultCommunityRegions are the most expensive community areas.
var DefaultCommunityRegions = []string{
	"Chicago, IL - Near North Side",
	"Chicago, IL - The Loop",
	"Chicago, IL - Near South Side",
	"Chicago, IL - North Center",
	"Chicago, IL - Lake View",
	"Chicago, IL - Lincoln Park",
	"Chicago, IL - Avondale",
	"Chicago, IL - Logan Square",
}

// DefaultCommunityColors pairs positionally with DefaultCommunityRegions.
var DefaultCommunityColors = []string{
	"pink", "green", "lawngreen", "skyblue", "orange", "darkred", "gray", "navy",
}

// DefaultSeasonColors pairs with the seasonal columns (ppsf, homes sold).
var DefaultSeasonColors = []string{"orange", "lightblue"}
