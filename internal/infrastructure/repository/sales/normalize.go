package sales

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"salespilot/services/chat-api/internal/domain/query"
)

// normalizeRecord rewrites BSON-specific values into plain-JSON ones:
// ObjectIDs become hex strings and temporal values become RFC 3339 strings.
// Results feed both API responses and generation prompts, so everything must
// survive a json.Marshal round-trip.
func normalizeRecord(doc bson.M) query.Record {
	out := make(query.Record, len(doc))
	for key, value := range doc {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return v.String()
	case bson.M:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = normalizeValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(v))
		for _, elem := range v {
			out[elem.Key] = normalizeValue(elem.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
