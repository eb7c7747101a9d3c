package models

// Page is one slice of an ordered result set plus the size of the whole set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}
