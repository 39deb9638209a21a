package models

import "time"

// RawRepo holds one entry scraped from a trending listing view before any
// enrichment. It lives only for the duration of a run and is never persisted.
type RawRepo struct {
	Name        string // canonical "owner/name" identifier
	Link        string
	Description string
	RawStars    string // star count as presented by the listing ("50k+", "1,234")
	Language    string
	View        string // listing view that produced this entry
	FetchedAt   time.Time
}

// Summary is the structured result of one text-generation call.
// Fallback is true when the backend failed (or returned nothing usable)
// and the fields hold deterministic templated text instead.
type Summary struct {
	Summary  string
	Feature  string
	Code     string
	Fallback bool
}

// Repository is the enriched record written to the daily snapshot and the
// record store. The JSON tags define the snapshot file schema; identity and
// date metadata travel out of band (the snapshot filename carries the date,
// the record store assigns IDs).
type Repository struct {
	ID            int64     `json:"-"`
	Name          string    `json:"name"`
	Link          string    `json:"link"`
	Summary       string    `json:"summary"`
	Feature       string    `json:"feature"`
	Code          string    `json:"code"`
	Stars         int       `json:"stars"`
	CollectedDate string    `json:"-"`
	CreatedAt     time.Time `json:"-"`

	// Degraded marks records whose summary came from the deterministic
	// fallback. Run-scoped, never persisted.
	Degraded bool `json:"-"`
}

// RunReport holds the statistics printed at the end of an ingestion run.
type RunReport struct {
	Date            string
	TotalCandidates int
	TotalRecords    int
	Degraded        int
	MinStars        int
	MaxStars        int
	AverageStars    float64
	MostStarred     *Repository
	ByLanguage      map[string]int
}
