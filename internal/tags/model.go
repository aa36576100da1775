package tags

// Tag is a dictionary entry recipes are labeled with.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
