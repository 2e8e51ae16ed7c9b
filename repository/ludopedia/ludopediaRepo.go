package ludopediarepo

// SearchResult is one catalog hit from the Ludopedia search endpoint.
type SearchResult struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// GameDetails carries the metadata used to enrich a catalog entry.
type GameDetails struct {
	Description string
	Rating      float64
	MinPlayers  int
	MaxPlayers  *int
	MinAge      int
	MaxTime     *int
}

type Repo interface {
	Search(query string) ([]SearchResult, error)
	Details(ludopediaID int64) (*GameDetails, error)
}
