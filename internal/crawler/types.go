package crawler

type Hit struct {
	CardID string
	Link   string
}

type SetStats struct {
	SetID    string
	Known    bool
	Cards    int
	Fetched  int
	NotFound int
	Skipped  int
	Hits     int
}

type SetResult struct {
	Hits  []Hit
	Stats SetStats
}
