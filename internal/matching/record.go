package matching

// Record is the persistable outcome of one pair's compatibility
// evaluation. At most one record exists per unordered pair of users; the
// smaller identifier always occupies User1ID so re-computation upserts the
// same row regardless of enumeration order.
type Record struct {
	User1ID string
	User2ID string
	Shared  SharedInterests
	Score   float64
	Starter string
}

// NewRecord builds a record with the pair in canonical order.
func NewRecord(id1, id2 string, shared SharedInterests, score float64, starter string) *Record {
	if id1 > id2 {
		id1, id2 = id2, id1
	}

	return &Record{
		User1ID: id1,
		User2ID: id2,
		Shared:  shared,
		Score:   score,
		Starter: starter,
	}
}
