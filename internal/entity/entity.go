package entity

// Entity is anything that can be persisted to an index under a stable id.
type Entity interface {
	Slug() string
}
