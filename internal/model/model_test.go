package model

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSchemaCoversAllEntities(t *testing.T) {
	schema := Schema()
	for _, collection := range []string{
		CollectionStudent,
		CollectionAttendance,
		CollectionAgenda,
		CollectionGrade,
		CollectionAdminUser,
	} {
		if _, ok := schema[collection]; !ok {
			t.Fatalf("expected schema entry for %s", collection)
		}
	}
}

func TestSchemaFieldNamesFollowBSONTags(t *testing.T) {
	schema := Schema()
	attendance := schema[CollectionAttendance]
	if attendance["student_id"] != "string" {
		t.Fatalf("expected student_id string, got %s", attendance["student_id"])
	}
	if attendance["date"] != "string" {
		t.Fatalf("expected date string, got %s", attendance["date"])
	}
	grade := schema[CollectionGrade]
	if grade["score"] != "float64" {
		t.Fatalf("expected score float64, got %s", grade["score"])
	}
	admin := schema[CollectionAdminUser]
	if admin["is_active"] != "bool" {
		t.Fatalf("expected is_active bool, got %s", admin["is_active"])
	}
}

// Updates pass the entity straight into $set, so every field must survive
// bson marshaling even when empty. An omitted empty note would make a
// stored note impossible to clear.
func TestEmptyFieldsSurviveBSONMarshal(t *testing.T) {
	data, err := bson.Marshal(Agenda{Title: "Rapat", Date: "2024-01-15"})
	if err != nil {
		t.Fatalf("marshal agenda: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal agenda: %v", err)
	}
	note, ok := doc["note"]
	if !ok {
		t.Fatalf("expected empty note to be present, got %v", doc)
	}
	if note != "" {
		t.Fatalf("expected empty note, got %v", note)
	}

	data, err = bson.Marshal(Grade{StudentID: "s1", Subject: "IPA", Score: 90})
	if err != nil {
		t.Fatalf("marshal grade: %v", err)
	}
	doc = nil
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal grade: %v", err)
	}
	if _, ok := doc["date"]; !ok {
		t.Fatalf("expected empty date to be present, got %v", doc)
	}
}
