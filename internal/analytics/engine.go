// Package analytics implements the statistics and query methods of the
// web-api service on top of the pipeline builder. Each method composes a
// fixed stage recipe, delegates execution to the store, and materializes
// the decoded rows. Methods that issue two store calls perform two
// independent, unordered reads; there is no cross-collection snapshot.
package analytics

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/models"
	"github.com/asuyou/anzen-web-api/internal/pipeline"
	"github.com/asuyou/anzen-web-api/internal/storage"
)

// searchLimit caps the candidate set of a search. The cap is applied
// before the attribute filters, so a filtered search can return fewer hits
// than exist in the collection.
const searchLimit = 50

// Executor runs an aggregation pipeline against a named collection and
// decodes the full result set into results, which must be a pointer to a
// slice.
type Executor interface {
	Aggregate(ctx context.Context, collection string, pl mongo.Pipeline, results any) error
}

// Engine exposes the analytical queries over the telemetry collections.
type Engine struct {
	store Executor
	log   logger.Logger
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store Executor, log logger.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// StatusQuery holds the optional filters of StatusDurationByHour.
// Device and Plugin are hex object ids.
type StatusQuery struct {
	Start  *string
	End    *string
	Armed  *bool
	Device *string
	Plugin *string
}

// SearchQuery holds the optional filters of Search. Device is a hex
// object id; Plugin is a plugin name.
type SearchQuery struct {
	Start  *string
	End    *string
	Armed  *bool
	Device *string
	Plugin *string
}

// EventStatisticsByKey computes, for disarmed events only, per-hour
// per-telemetry-key occurrence counts and the mean of each union variant
// independently. A variant that never appears in a bucket yields a nil
// average: the store's $avg excludes missing and mismatched fields rather
// than counting them as zero.
func (e *Engine) EventStatisticsByKey(ctx context.Context) ([]models.EventKeyStats, error) {
	b := pipeline.New().
		Match([]pipeline.Filter{pipeline.EqValue("metadata.armed", false)}, nil, nil).
		Custom(bson.D{{Key: "$project", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$dateToParts", Value: bson.D{{Key: "date", Value: "$timestamp"}}}}},
			{Key: "data", Value: bson.D{{Key: "$objectToArray", Value: "$data"}}},
		}}}).
		Custom(bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$data"}}}}).
		Custom(bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: bson.D{
					{Key: "year", Value: "$date.year"},
					{Key: "month", Value: "$date.month"},
					{Key: "day", Value: "$date.day"},
					{Key: "hour", Value: "$date.hour"},
				}},
				{Key: "key", Value: "$data.k"},
			}},
			{Key: "count", Value: bson.D{{Key: "$count", Value: bson.D{}}}},
			{Key: "float_avg", Value: bson.D{{Key: "$avg", Value: "$data.v.float_value"}}},
			{Key: "int_avg", Value: bson.D{{Key: "$avg", Value: "$data.v.int_value"}}},
			// $toInt maps the boolean variant to 0/1 so it participates
			// in the mean; null and missing stay excluded.
			{Key: "binary_avg", Value: bson.D{{Key: "$avg", Value: bson.D{{Key: "$toInt", Value: "$data.v.binary_value"}}}}},
		}}})

	var rows []models.EventKeyStats
	if err := e.run(ctx, storage.CollectionEvents, b, &rows, "event statistics"); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.EventKeyStats{}
	}
	return rows, nil
}

// StatusDurationByHour counts events per (hour, armed-flag) bucket,
// optionally restricted by a time range and by armed/device/plugin
// equality filters, and reconstructs a timestamp from each bucket's date
// parts.
func (e *Engine) StatusDurationByHour(ctx context.Context, q StatusQuery) ([]models.StatusDuration, error) {
	deviceFilter, err := objectIDFilter("metadata.device_id", q.Device)
	if err != nil {
		return nil, err
	}
	pluginFilter, err := objectIDFilter("metadata.plugin_id", q.Plugin)
	if err != nil {
		return nil, err
	}

	filters := []pipeline.Filter{
		pipeline.Eq("metadata.armed", q.Armed),
		deviceFilter,
		pluginFilter,
	}

	b := pipeline.New().
		Match(filters, q.Start, q.End).
		Custom(bson.D{{Key: "$project", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$dateToParts", Value: bson.D{{Key: "date", Value: "$timestamp"}}}}},
			{Key: "armed", Value: "$metadata.armed"},
		}}}).
		Custom(bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: bson.D{
					{Key: "year", Value: "$date.year"},
					{Key: "month", Value: "$date.month"},
					{Key: "day", Value: "$date.day"},
					{Key: "hour", Value: "$date.hour"},
				}},
				{Key: "armed", Value: "$armed"},
			}},
			{Key: "count", Value: bson.D{{Key: "$count", Value: bson.D{}}}},
		}}}).
		Custom(bson.D{{Key: "$project", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$dateFromParts", Value: bson.D{
				{Key: "year", Value: "$_id.date.year"},
				{Key: "month", Value: "$_id.date.month"},
				{Key: "day", Value: "$_id.date.day"},
				{Key: "hour", Value: "$_id.date.hour"},
			}}}},
			{Key: "armed", Value: "$_id.armed"},
			{Key: "count", Value: "$count"},
		}}})

	var rows []models.StatusDuration
	if err := e.run(ctx, storage.CollectionEvents, b, &rows, "status durations"); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.StatusDuration{}
	}
	return rows, nil
}

// RecentActivity returns the n most recent events and commands with their
// plugin (and, for events, device) references joined in as arrays. The
// two lists come from independent reads.
func (e *Engine) RecentActivity(ctx context.Context, n int64) (*models.Activity, error) {
	if n < 0 {
		return nil, &ValidationError{Msg: "activity limit must not be negative"}
	}

	sortNewestFirst := bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}}

	events := pipeline.New().
		Custom(sortNewestFirst).
		Limit(n).
		Lookup(storage.CollectionPlugins, "metadata.plugin_id", "_id", "plugin").
		Lookup(storage.CollectionDevices, "metadata.device_id", "_id", "device")

	commands := pipeline.New().
		Custom(sortNewestFirst).
		Limit(n).
		Lookup(storage.CollectionPlugins, "metadata.plugin_id", "_id", "plugin")

	activity := &models.Activity{
		Events:   []models.EventActivity{},
		Commands: []models.CommandActivity{},
	}
	if err := e.run(ctx, storage.CollectionEvents, events, &activity.Events, "recent events"); err != nil {
		return nil, err
	}
	if err := e.run(ctx, storage.CollectionCommands, commands, &activity.Commands, "recent commands"); err != nil {
		return nil, err
	}
	return activity, nil
}

// Search returns events and commands in the optional time range that
// satisfy the attribute filters after their references are joined and
// flattened. The candidate cap is applied first, then the time range,
// then the join; the attribute filters run last because armed, device id,
// and plugin name only exist in their final shape after the flatten step.
func (e *Engine) Search(ctx context.Context, q SearchQuery) (*models.SearchResults, error) {
	deviceFilter, err := objectIDFilter("device._id", q.Device)
	if err != nil {
		return nil, err
	}

	events := pipeline.New().
		Limit(searchLimit).
		Match(nil, q.Start, q.End).
		Lookup(storage.CollectionDevices, "metadata.device_id", "_id", "device").
		Lookup(storage.CollectionPlugins, "metadata.plugin_id", "_id", "plugin").
		ReplaceWithFirst("device", "plugin").
		Match([]pipeline.Filter{
			pipeline.Eq("metadata.armed", q.Armed),
			deviceFilter,
			pipeline.Eq("plugin.name", q.Plugin),
		}, nil, nil)

	commands := pipeline.New().
		Limit(searchLimit).
		Match(nil, q.Start, q.End).
		Lookup(storage.CollectionPlugins, "metadata.plugin_id", "_id", "plugin").
		ReplaceWithFirst("plugin").
		Match([]pipeline.Filter{
			pipeline.Eq("plugin.name", q.Plugin),
		}, nil, nil)

	results := &models.SearchResults{
		Events:   []models.EventSearchHit{},
		Commands: []models.CommandSearchHit{},
	}
	if err := e.run(ctx, storage.CollectionEvents, events, &results.Events, "search events"); err != nil {
		return nil, err
	}
	if err := e.run(ctx, storage.CollectionCommands, commands, &results.Commands, "search commands"); err != nil {
		return nil, err
	}
	return results, nil
}

// run builds the pipeline and executes it, translating store failures
// into ExecutionError. Build errors (malformed timestamps) pass through
// untouched.
func (e *Engine) run(ctx context.Context, collection string, b *pipeline.Builder, out any, op string) error {
	pl, err := b.Build()
	if err != nil {
		return err
	}

	if err := e.store.Aggregate(ctx, collection, pl, out); err != nil {
		e.log.Error("Aggregation failed",
			logger.String("collection", collection),
			logger.String("op", op),
			logger.Error(err),
		)
		return &ExecutionError{Op: op, Err: err}
	}
	return nil
}

// objectIDFilter converts an optional hex id into an equality filter on
// key. A malformed id is rejected as a ValidationError before any store
// call.
func objectIDFilter(key string, hex *string) (pipeline.Filter, error) {
	if hex == nil {
		return pipeline.Eq[string](key, nil), nil
	}
	id, err := bson.ObjectIDFromHex(*hex)
	if err != nil {
		return pipeline.Filter{}, &ValidationError{Msg: "malformed object id: " + *hex}
	}
	return pipeline.EqValue(key, id), nil
}
