package models

import "time"

// DateBucket is the (year, month, day, hour) time granule statistics rows
// group on.
type DateBucket struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Day   int `bson:"day" json:"day"`
	Hour  int `bson:"hour" json:"hour"`
}

// EventKeyBucket is the group key of an event-statistics row: a time
// granule plus the telemetry key.
type EventKeyBucket struct {
	Date DateBucket `bson:"date" json:"date"`
	Key  string     `bson:"key" json:"key"`
}

// EventKeyStats is one aggregate row of the per-key telemetry statistics.
// Each average covers only the records where that union variant was
// populated; an average is nil when the variant never appeared in the
// bucket.
type EventKeyStats struct {
	Bucket    EventKeyBucket `bson:"_id" json:"bucket"`
	Count     int64          `bson:"count" json:"count"`
	FloatAvg  *float64       `bson:"float_avg" json:"float_avg,omitempty"`
	IntAvg    *float64       `bson:"int_avg" json:"int_avg,omitempty"`
	BinaryAvg *float64       `bson:"binary_avg" json:"binary_avg,omitempty"`
}

// StatusDuration is one aggregate row of the hourly status counts. The
// timestamp is reconstructed from the bucket's date parts.
type StatusDuration struct {
	Timestamp time.Time `bson:"date" json:"timestamp"`
	Armed     bool      `bson:"armed" json:"armed"`
	Count     int64     `bson:"count" json:"count"`
}

// EventActivity is an event with its referenced plugin and device joined
// in. The joins are left-outer, so the slices hold zero or one element for
// well-formed references.
type EventActivity struct {
	Event  `bson:",inline"`
	Plugin []Plugin `bson:"plugin,omitempty" json:"plugin,omitempty"`
	Device []Device `bson:"device,omitempty" json:"device,omitempty"`
}

// CommandActivity is a command with its referenced plugin joined in.
type CommandActivity struct {
	Command `bson:",inline"`
	Plugin  []Plugin `bson:"plugin,omitempty" json:"plugin,omitempty"`
}

// Activity pairs the most recent events and commands. The two lists come
// from independent reads and are not a consistent cross-collection
// snapshot.
type Activity struct {
	Events   []EventActivity   `json:"events"`
	Commands []CommandActivity `json:"commands"`
}

// EventSearchHit is an event whose joined references have been flattened
// to single optional sub-documents.
type EventSearchHit struct {
	Event  `bson:",inline"`
	Plugin *Plugin `bson:"plugin,omitempty" json:"plugin,omitempty"`
	Device *Device `bson:"device,omitempty" json:"device,omitempty"`
}

// CommandSearchHit is a command whose joined plugin has been flattened to
// a single optional sub-document.
type CommandSearchHit struct {
	Command `bson:",inline"`
	Plugin  *Plugin `bson:"plugin,omitempty" json:"plugin,omitempty"`
}

// SearchResults pairs the filtered event and command hits.
type SearchResults struct {
	Events   []EventSearchHit   `json:"events"`
	Commands []CommandSearchHit `json:"commands"`
}
