package model

const (
	ReferenceSourceEditorial      = "editorial"
	ReferenceSourceSolutionsIndex = "solutions_index"
)

type ReferenceItem struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Votes    *int    `json:"votes"`
	Language *string `json:"language"`
	Source   string  `json:"source"`
}

// CommunitySolution is a vote-ranked discussion post holding a candidate
// answer, with the code snippet scraped out of the post body when one of
// the blocks matches the requested language.
type CommunitySolution struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Votes    *int    `json:"votes"`
	Language *string `json:"language"`
	Code     *string `json:"code,omitempty"`
	Content  *string `json:"content,omitempty"`
}

type ReferencesResponse struct {
	Slug              string             `json:"slug"`
	Language          *string            `json:"language"`
	Items             []ReferenceItem    `json:"items"`
	CommunitySolution *CommunitySolution `json:"community_solution,omitempty"`
}
