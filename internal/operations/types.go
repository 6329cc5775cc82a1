package operations

// Step identifiers. They double as span names.
const (
	StageIDLoad      = "load"
	StageIDClean     = "clean"
	StageIDAggregate = "aggregate"
	StageIDRender    = "render"
	StageIDExport    = "export"
)

// Step names
const (
	StageNameLoad      = "Data Loading"
	StageNameClean     = "Data Cleaning"
	StageNameAggregate = "Aggregation"
	StageNameRender    = "Chart Rendering"
	StageNameExport    = "Report Export"
)

// Metadata keys recorded on step states
const (
	MetaRowsLoaded  = "rows_loaded"
	MetaRatesLoaded = "rates_loaded"
	MetaRowsCleaned = "rows_cleaned"
	MetaRegions     = "regions"
	MetaCharts      = "charts"
	MetaFiles       = "files"
)

// Chart titles
const (
	TitleSidePpsf        = "Median Sale Price Psf in Chicago (by side)"
	TitleSideChange      = "% Change of House Price in Chicago (by side)"
	TitleCommunityPpsf   = "The Most Expensive Communities in Chicago"
	TitleCommunityChange = "% Change of House Price in Chicago (Community)"
	TitleSeason          = "Seasonal Activity"
	TitleSaleShare       = "Share of Homes Sale in Unit by Month"
	TitleMortgage        = "Mortgage Rate vs. House Price in Chicago"
)

// Chart file stems. Per-region and per-column charts append _<label>.
const (
	ChartSidePpsf      = "fig1"
	ChartCommunityPpsf = "fig2"
	ChartVariants      = "fig"
	ChartSaleShare     = "fig_share"
	ChartUnitsSold     = "fig_sale"
	ChartMortgage      = "fig_mortgage"
)

// CSV exports, written to the reports directory
const (
	ExportSidePpsf        = "ppsf_by_side.csv"
	ExportSideChange      = "ppsf_change_by_side.csv"
	ExportCommunityPpsf   = "ppsf_by_community.csv"
	ExportCommunityChange = "ppsf_change_by_community.csv"
	ExportSeason          = "seasonal_activity.csv"
	ExportSaleShare       = "monthly_sale_share.csv"
	ExportUnitsSold       = "monthly_units_sold.csv"
	ExportTransactions    = "cleaned_transactions.csv"
)

// Export column headers
const (
	HeaderYear      = "Year"
	HeaderPpsf      = "Median Sale Ppsf"
	HeaderChange    = "Percent Change"
	HeaderUnitsSold = "Avg Monthly Homes Sold"
)
