package storage

import "time"

type Entry struct {
	Seq         int64
	Value       int
	Clock       string
	MinuteOfDay int
	Position    int
	RecordedAt  time.Time
}

type Rejection struct {
	Seq        int64
	ValueText  string
	TimeText   string
	Kind       string
	Reason     string
	RecordedAt time.Time
}

type Summary struct {
	Count    int
	Min      int
	Max      int
	Mean     float64
	First    string
	Last     string
	Rejected int
}

type RejectionListFilter struct {
	Limit  int
	Newest bool
}
