package store

// User is a profile with its fetched posts and, after extraction, the
// canonical interest labels derived from them. Interests are populated once
// per pipeline run and not mutated afterwards.
type User struct {
	ID        string
	Username  string
	Posts     []string
	Interests []string
}
