package query

import "context"

// Stage is one aggregation operation understood by the document store. The
// service treats stages as opaque apart from two structural facts: they may
// contain {"$date": "<ISO-8601>"} wrapper literals at any depth, and the
// first stage of a data-query pipeline is a tenant filter.
type Stage = map[string]any

// Pipeline is an ordered sequence of aggregation stages.
type Pipeline []Stage

// Record is one aggregation result row, normalized to plain-JSON values.
type Record = map[string]any

// Intent is the structured classification of a user message. The wire shape
// of its JSON form is a compatibility contract with the generation prompt.
type Intent struct {
	Reasoning       string   `json:"reasoning"`
	IsDatabaseQuery bool     `json:"is_database_query"`
	Pipeline        Pipeline `json:"pipeline"`
}

// Repository runs aggregation pipelines against the sales collection.
type Repository interface {
	Aggregate(ctx context.Context, pipeline Pipeline) ([]Record, error)
}
