// Package openlibrary provides a client for the Open Library search API.
//
// Open Library is a free, open catalog of published books. This package
// implements the booksource.BookSource interface and normalizes Open
// Library search documents into domain books.
//
// API Documentation: https://openlibrary.org/dev/docs/api/search
package openlibrary

// SearchResponse represents the top-level response from the Open Library
// search endpoint.
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Start    int   `json:"start"`
	Docs     []Doc `json:"docs"`
}

// Doc represents a single work document in an Open Library search response.
// Only the fields the catalog consumes are decoded. FirstPublishYear is a
// pointer so an absent field stays distinguishable from a recorded year 0.
type Doc struct {
	Title            string   `json:"title"`
	FirstPublishYear *int     `json:"first_publish_year"`
	AuthorName       []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
}
