package sales

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeRecord(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	doc := bson.M{
		"_id":      oid,
		"item":     "Laptop",
		"price":    999.99,
		"quantity": int32(2),
		"date":     primitive.NewDateTimeFromTime(ts),
		"tags":     primitive.A{"refurbished", bson.M{"added": ts}},
		"meta":     bson.D{{Key: "source", Value: "import"}},
	}

	got := normalizeRecord(doc)

	if got["_id"] != oid.Hex() {
		t.Errorf("_id = %v, want hex string %s", got["_id"], oid.Hex())
	}
	if got["date"] != "2024-05-01T10:30:00Z" {
		t.Errorf("date = %v, want RFC 3339 string", got["date"])
	}

	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("tags = %#v", got["tags"])
	}
	nested, ok := tags[1].(map[string]any)
	if !ok || nested["added"] != "2024-05-01T10:30:00Z" {
		t.Errorf("nested date not normalized: %#v", tags[1])
	}

	meta, ok := got["meta"].(map[string]any)
	if !ok || meta["source"] != "import" {
		t.Errorf("bson.D not flattened: %#v", got["meta"])
	}

	if _, err := json.Marshal(got); err != nil {
		t.Errorf("normalized record must be JSON-marshalable: %v", err)
	}
}

func TestNormalizeValue_Decimal128(t *testing.T) {
	dec, err := primitive.ParseDecimal128("12345.67")
	if err != nil {
		t.Fatalf("parse decimal: %v", err)
	}

	got := normalizeValue(dec)
	if got != "12345.67" {
		t.Errorf("decimal = %v, want string 12345.67", got)
	}
}
