package models

// CategoryTotal is the aggregated spend for a single category.
type CategoryTotal struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Total    string `json:"total"`
}

type Summary struct {
	Total      string          `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}
