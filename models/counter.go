package models

// Counter holds the last-assigned id for one collection.
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
