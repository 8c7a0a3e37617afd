package collector

import "context"

// Repo is one trending repository as discovered on the trending page.
// Identity is the (Author, Name) pair; a Repo is never mutated after creation
// and is rebuilt fresh on every discovery cycle.
type Repo struct {
	Author      string
	Name        string
	Description string
	Stars       int
	URL         string
}

// Key returns the dedup store key for the repo. Two repos with the same
// identity always map to the same key, whatever their description or stars.
func (r Repo) Key() string {
	return r.Author + "/" + r.Name
}

// Fetcher abstracts the discovery source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Repo, error)
}
