package database

// Crawl holds metadata about one recorded crawl run.
type Crawl struct {
	ID         int64
	RootPath   string
	AssetCount int
	CrawledAt  *string
}

// SignalRow is one asset's signal snapshot within a crawl.
type SignalRow struct {
	ID          int64
	CrawlID     int64
	Asset       string
	ReportDate  *string
	Signal      string
	LastSignal  *string
	Up          *string
	Sideways    *string
	Down        *string
	Sentiment   *string
	VIX         *string
	Consensus   *string
	Indicators  *string
	Explanation *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalCrawls  int
	TotalSignals int
	Assets       int
}
