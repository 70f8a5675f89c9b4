// Package pipeline assembles aggregation pipelines for the anzen document
// store. A Builder accumulates an ordered stage sequence through chained
// calls; stage order is significant, so a limit placed before a match
// bounds the candidate set, not the final result.
package pipeline

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Builder accumulates aggregation stages. The zero value is usable. A
// Builder is plain value composition with no shared state; construct as
// many as needed concurrently, but do not share one across goroutines.
type Builder struct {
	stages []stage
	err    error
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Custom appends an arbitrary caller-supplied stage document. It is the
// escape hatch for stages with no dedicated method: sorts, projections,
// groupings, date-part decomposition.
func (b *Builder) Custom(doc bson.D) *Builder {
	b.stages = append(b.stages, customStage{doc: doc})
	return b
}

// Match appends one filter stage combining an optional timestamp range
// with the equality filters that carry a value. The start bound is
// inclusive ($gte) and the end bound exclusive ($lt). When neither bound
// nor any present filter remains, no stage is appended at all. A
// timestamp that fails to parse records a ParseError, surfaced by Build,
// and appends nothing.
func (b *Builder) Match(filters []Filter, start, end *string) *Builder {
	if b.err != nil {
		return b
	}

	var timeRange bson.D

	if start != nil {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			b.err = &ParseError{Input: *start, Err: err}
			return b
		}
		timeRange = append(timeRange, bson.E{Key: "$gte", Value: t})
	}

	if end != nil {
		t, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			b.err = &ParseError{Input: *end, Err: err}
			return b
		}
		timeRange = append(timeRange, bson.E{Key: "$lt", Value: t})
	}

	var match bson.D
	if len(timeRange) > 0 {
		match = append(match, bson.E{Key: "timestamp", Value: timeRange})
	}
	for _, f := range filters {
		if f.set {
			match = append(match, bson.E{Key: f.key, Value: f.value})
		}
	}

	if len(match) == 0 {
		return b
	}

	b.stages = append(b.stages, matchStage{doc: match})
	return b
}

// Limit appends a result-count bound. Negative bounds are the caller's
// responsibility to reject.
func (b *Builder) Limit(n int64) *Builder {
	b.stages = append(b.stages, limitStage{n: n})
	return b
}

// Lookup appends a left-outer join: documents from collection whose
// foreignField equals the input's localField are collected into the out
// field as an array.
func (b *Builder) Lookup(collection, localField, foreignField, out string) *Builder {
	b.stages = append(b.stages, lookupStage{
		from:         collection,
		localField:   localField,
		foreignField: foreignField,
		as:           out,
	})
	return b
}

// ReplaceWithFirst appends a stage replacing each named array field with
// its first element, typically to flatten a prior Lookup's output.
func (b *Builder) ReplaceWithFirst(names ...string) *Builder {
	b.stages = append(b.stages, firstElementStage{fields: names})
	return b
}

// Len returns the number of accumulated stages.
func (b *Builder) Len() int {
	return len(b.stages)
}

// Build renders the accumulated stages into a pipeline, or returns the
// first error recorded by a failed stage addition. Every call renders
// fresh stage documents, so pipelines returned earlier are never mutated
// by later builder use.
func (b *Builder) Build() (mongo.Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}

	pl := make(mongo.Pipeline, 0, len(b.stages))
	for _, s := range b.stages {
		pl = append(pl, s.render())
	}
	return pl, nil
}
