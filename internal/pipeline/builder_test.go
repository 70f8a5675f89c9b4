package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func strPtr(s string) *string {
	return &s
}

func stageName(t *testing.T, doc bson.D) string {
	t.Helper()
	require.NotEmpty(t, doc)
	return doc[0].Key
}

func matchDoc(t *testing.T, doc bson.D) bson.D {
	t.Helper()
	require.Equal(t, "$match", doc[0].Key)
	match, ok := doc[0].Value.(bson.D)
	require.True(t, ok, "match payload should be a document")
	return match
}

func TestMatch_AbsentFiltersContributeNothing(t *testing.T) {
	armed := true
	filters := []Filter{
		Eq[string]("metadata.device_id", nil),
		Eq("metadata.armed", &armed),
		Eq[string]("metadata.plugin_id", nil),
	}

	pl, err := New().Match(filters, nil, nil).Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)

	match := matchDoc(t, pl[0])
	require.Len(t, match, 1)
	assert.Equal(t, "metadata.armed", match[0].Key)
	assert.Equal(t, true, match[0].Value)
}

func TestMatch_AllAbsentAppendsNoStage(t *testing.T) {
	b := New().Match([]Filter{Eq[string]("metadata.device_id", nil)}, nil, nil)

	assert.Equal(t, 0, b.Len())

	pl, err := b.Build()
	require.NoError(t, err)
	assert.Empty(t, pl)
}

func TestMatch_TimeRangeOperators(t *testing.T) {
	pl, err := New().
		Match(nil, strPtr("2026-01-02T15:00:00Z"), strPtr("2026-01-03T15:00:00Z")).
		Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)

	match := matchDoc(t, pl[0])
	require.Equal(t, "timestamp", match[0].Key)

	timeRange, ok := match[0].Value.(bson.D)
	require.True(t, ok)
	require.Len(t, timeRange, 2)

	assert.Equal(t, "$gte", timeRange[0].Key)
	assert.Equal(t, "$lt", timeRange[1].Key)

	start, _ := time.Parse(time.RFC3339, "2026-01-02T15:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-01-03T15:00:00Z")
	assert.Equal(t, start, timeRange[0].Value)
	assert.Equal(t, end, timeRange[1].Value)
}

func TestMatch_StartOnly(t *testing.T) {
	pl, err := New().Match(nil, strPtr("2026-01-02T15:00:00Z"), nil).Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)

	timeRange := matchDoc(t, pl[0])[0].Value.(bson.D)
	require.Len(t, timeRange, 1)
	assert.Equal(t, "$gte", timeRange[0].Key)
}

func TestMatch_BadTimestampFailsAndAppendsNothing(t *testing.T) {
	b := New().Match(nil, strPtr("not-a-timestamp"), nil)

	assert.Equal(t, 0, b.Len())

	_, err := b.Build()
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not-a-timestamp", parseErr.Input)
}

func TestMatch_BadEndTimestampFails(t *testing.T) {
	b := New().Match(nil, strPtr("2026-01-02T15:00:00Z"), strPtr("later"))

	assert.Equal(t, 0, b.Len())

	_, err := b.Build()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "later", parseErr.Input)
}

func TestBuild_TwiceYieldsEqualPipelines(t *testing.T) {
	b := New().
		Limit(5).
		Lookup("plugins", "metadata.plugin_id", "_id", "plugin").
		Match([]Filter{EqValue("metadata.armed", false)}, nil, nil)

	first, err := b.Build()
	require.NoError(t, err)

	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_SnapshotNotAffectedByLaterStages(t *testing.T) {
	b := New().Limit(5)

	first, err := b.Build()
	require.NoError(t, err)
	require.Len(t, first, 1)

	b.Limit(10).Lookup("devices", "metadata.device_id", "_id", "device")

	assert.Len(t, first, 1)
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(5)}}, first[0])
}

func TestLookup_RendersLeftOuterJoin(t *testing.T) {
	pl, err := New().Lookup("plugins", "metadata.plugin_id", "_id", "plugin").Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)

	require.Equal(t, "$lookup", stageName(t, pl[0]))
	lookup := pl[0][0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "from", Value: "plugins"},
		{Key: "localField", Value: "metadata.plugin_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "plugin"},
	}, lookup)
}

func TestReplaceWithFirst_RendersFirstElementPerField(t *testing.T) {
	pl, err := New().ReplaceWithFirst("device", "plugin").Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)

	require.Equal(t, "$addFields", stageName(t, pl[0]))
	fields := pl[0][0].Value.(bson.D)
	require.Len(t, fields, 2)
	assert.Equal(t, "device", fields[0].Key)
	assert.Equal(t, bson.D{{Key: "$first", Value: "$device"}}, fields[0].Value)
	assert.Equal(t, "plugin", fields[1].Key)
	assert.Equal(t, bson.D{{Key: "$first", Value: "$plugin"}}, fields[1].Value)
}

func TestCustom_PassesStageThrough(t *testing.T) {
	sort := bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}}

	pl, err := New().Custom(sort).Build()
	require.NoError(t, err)
	require.Len(t, pl, 1)
	assert.Equal(t, sort, pl[0])
}

func TestBuilder_StageOrderPreserved(t *testing.T) {
	pl, err := New().
		Limit(50).
		Match(nil, strPtr("2026-01-02T15:00:00Z"), nil).
		Lookup("devices", "metadata.device_id", "_id", "device").
		ReplaceWithFirst("device").
		Match([]Filter{EqValue("metadata.armed", true)}, nil, nil).
		Build()
	require.NoError(t, err)
	require.Len(t, pl, 5)

	assert.Equal(t, "$limit", stageName(t, pl[0]))
	assert.Equal(t, "$match", stageName(t, pl[1]))
	assert.Equal(t, "$lookup", stageName(t, pl[2]))
	assert.Equal(t, "$addFields", stageName(t, pl[3]))
	assert.Equal(t, "$match", stageName(t, pl[4]))
}

func TestMatch_FailedMatchDoesNotAffectLaterBuilds(t *testing.T) {
	b := New().Limit(3).Match(nil, strPtr("garbage"), nil)

	_, err := b.Build()
	require.Error(t, err)

	// The error sticks: the builder stays failed rather than silently
	// dropping the stage.
	_, err = b.Build()
	require.Error(t, err)
	assert.Equal(t, 1, b.Len())
}
