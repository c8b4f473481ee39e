package dto

// UniversitySearchResult mirrors one record from the public
// universities directory.
type UniversitySearchResult struct {
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	WebPages []string `json:"web_pages,omitempty"`
	Domains  []string `json:"domains,omitempty"`
}

// UniversityDetail adds AI enrichment on top of the directory record.
type UniversityDetail struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	Website       string   `json:"website,omitempty"`
	TuitionRange  string   `json:"tuition_range,omitempty"`
	Ranking       string   `json:"ranking,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
	PopularFields []string `json:"popular_fields,omitempty"`
}

type UniversitySearchResponse struct {
	Results  []UniversityDetail `json:"results"`
	Total    int                `json:"total"`
	Enriched bool               `json:"enriched"`
}
