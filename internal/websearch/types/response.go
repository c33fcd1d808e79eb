package types

// ResultType is the derived content category of a search result.
type ResultType string

const (
	TypePDF          ResultType = "pdf"
	TypeWord         ResultType = "word"
	TypeSpreadsheet  ResultType = "spreadsheet"
	TypePresentation ResultType = "presentation"
	TypeImage        ResultType = "image"
	TypeVideo        ResultType = "video"
	TypeNews         ResultType = "news"
	TypeMap          ResultType = "map"
	TypeSocial       ResultType = "social"
	TypeWeb          ResultType = "web"
	TypeOther        ResultType = "other"
)

// CSEImage is a thumbnail entry from the provider's pagemap.
type CSEImage struct {
	Src string `json:"src,omitempty"`
}

// PageMap carries opaque provider metadata attached to a result.
type PageMap struct {
	CSEImage []CSEImage          `json:"cse_image,omitempty"`
	MetaTags []map[string]string `json:"metatags,omitempty"`
}

// SearchResult represents a single search result
type SearchResult struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"` // unique key
	DisplayLink string     `json:"displayLink"`
	Snippet     string     `json:"snippet"`
	Type        ResultType `json:"type,omitempty"` // derived, see DetectResultType
	Mime        string     `json:"mime,omitempty"`
	PageMap     *PageMap   `json:"pagemap,omitempty"`
	Important   bool       `json:"important,omitempty"`
	Score       float64    `json:"score,omitempty"`
}

// SearchResponse represents a search response
type SearchResponse struct {
	Query string          `json:"query"`
	Items []*SearchResult `json:"items"`
	Took  int64           `json:"took"` // milliseconds
}
