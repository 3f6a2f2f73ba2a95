package domain

// SearchResults carries the three independent, unordered result lists of a
// substring search.
type SearchResults struct {
	Tasks    []Task    `json:"tasks"`
	Projects []Project `json:"projects"`
	Users    []User    `json:"users"`
}
