package domain

// Point is a single keyed value of a metric series. Key is a year or a month
// number depending on the metric. Valid is false when the value is missing,
// e.g. the first entry of a percentage change series.
type Point struct {
	Key   int     `json:"key"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Series is an ordered metric series, ascending by key.
type Series []Point

// Keys returns the series keys in order.
func (s Series) Keys() []int {
	keys := make([]int, len(s))
	for i, p := range s {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the series values in order. Missing values are returned as 0;
// use Valid or ValidPoints when the distinction matters.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// ValidPoints returns only the points carrying a defined value.
func (s Series) ValidPoints() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Valid {
			out = append(out, p)
		}
	}
	return out
}

// Lookup returns the point stored under key.
func (s Series) Lookup(key int) (Point, bool) {
	for _, p := range s {
		if p.Key == key {
			return p, true
		}
	}
	return Point{}, false
}

// Labeled pairs a region label with its series.
type Labeled struct {
	Region string `json:"region"`
	Series Series `json:"series"`
}

// RegionSeries is an ordered list of region series. Order follows the order
// in which regions were requested.
type RegionSeries []Labeled

// Set stores series under region. A label already present keeps its position
// and has its series replaced.
func (rs *RegionSeries) Set(region string, s Series) {
	for i := range *rs {
		if (*rs)[i].Region == region {
			(*rs)[i].Series = s
			return
		}
	}
	*rs = append(*rs, Labeled{Region: region, Series: s})
}

// Get returns the series stored under region.
func (rs RegionSeries) Get(region string) (Series, bool) {
	for _, l := range rs {
		if l.Region == region {
			return l.Series, true
		}
	}
	return nil, false
}

// Regions returns the labels in order.
func (rs RegionSeries) Regions() []string {
	regions := make([]string, len(rs))
	for i, l := range rs {
		regions[i] = l.Region
	}
	return regions
}
