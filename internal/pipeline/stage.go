package pipeline

import "go.mongodb.org/mongo-driver/v2/bson"

// stage is one aggregation operation. The set of variants is closed:
// anything without a dedicated builder method goes through customStage.
type stage interface {
	render() bson.D
}

type matchStage struct {
	doc bson.D
}

func (s matchStage) render() bson.D {
	return bson.D{{Key: "$match", Value: s.doc}}
}

type limitStage struct {
	n int64
}

func (s limitStage) render() bson.D {
	return bson.D{{Key: "$limit", Value: s.n}}
}

type lookupStage struct {
	from         string
	localField   string
	foreignField string
	as           string
}

func (s lookupStage) render() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: s.from},
		{Key: "localField", Value: s.localField},
		{Key: "foreignField", Value: s.foreignField},
		{Key: "as", Value: s.as},
	}}}
}

// firstElementStage rewrites each named array field to its first element,
// flattening a one-to-many join result into a one-to-one shape. An empty
// array becomes null.
type firstElementStage struct {
	fields []string
}

func (s firstElementStage) render() bson.D {
	replacements := make(bson.D, 0, len(s.fields))
	for _, name := range s.fields {
		replacements = append(replacements, bson.E{
			Key:   name,
			Value: bson.D{{Key: "$first", Value: "$" + name}},
		})
	}
	return bson.D{{Key: "$addFields", Value: replacements}}
}

type customStage struct {
	doc bson.D
}

func (s customStage) render() bson.D {
	return s.doc
}
