package domain

// Query selects a page of records. Page and PageSize are 1-based; Search is
// an optional case-insensitive substring filter.
type Query struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
}

// Page is one slice of the filtered, key-sorted collection. Count is the
// post-filter total across all pages.
type Page struct {
	Results    []*Record `json:"results"`
	Count      int       `json:"count"`
	TotalPages int       `json:"total_pages"`
}
