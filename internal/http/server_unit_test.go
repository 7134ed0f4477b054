package http

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"presensi/school/internal/config"
	"presensi/school/internal/db"
	"presensi/school/internal/model"
	"presensi/school/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := db.Connect(context.Background(), "", "school")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return NewServer(config.Load(), store, session.NewMemoryStore())
}

func TestValidateStudent(t *testing.T) {
	s := newTestServer(t)
	if fields := s.validateStruct(model.Student{Name: "Budi", ClassName: "5A"}); fields != nil {
		t.Fatalf("expected valid student, got %v", fields)
	}
	fields := s.validateStruct(model.Student{Name: "", ClassName: "5A"})
	if fields == nil {
		t.Fatalf("expected missing name to fail")
	}
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected name in field errors, got %v", fields)
	}
}

func TestValidateGradeScoreBounds(t *testing.T) {
	s := newTestServer(t)
	valid := model.Grade{StudentID: "abc", Subject: "Matematika", Score: 0}
	if fields := s.validateStruct(valid); fields != nil {
		t.Fatalf("expected score 0 to be valid, got %v", fields)
	}
	valid.Score = 100
	if fields := s.validateStruct(valid); fields != nil {
		t.Fatalf("expected score 100 to be valid, got %v", fields)
	}
	for _, score := range []float64{-1, 100.5, 1000} {
		invalid := valid
		invalid.Score = score
		fields := s.validateStruct(invalid)
		if fields == nil {
			t.Fatalf("expected score %v to fail", score)
		}
		if _, ok := fields["score"]; !ok {
			t.Fatalf("expected score in field errors, got %v", fields)
		}
	}
}

func TestValidateAttendanceStatusEnum(t *testing.T) {
	s := newTestServer(t)
	for _, status := range []string{model.StatusHadir, model.StatusAlfa, model.StatusIzin, model.StatusSakit} {
		payload := model.Attendance{StudentID: "abc", Date: "2024-01-15", Status: status}
		if fields := s.validateStruct(payload); fields != nil {
			t.Fatalf("expected status %s to be valid, got %v", status, fields)
		}
	}
	payload := model.Attendance{StudentID: "abc", Date: "2024-01-15", Status: "Bolos"}
	if fields := s.validateStruct(payload); fields == nil {
		t.Fatalf("expected unknown status to fail")
	}
	payload = model.Attendance{StudentID: "abc", Date: "15-01-2024", Status: model.StatusHadir}
	fields := s.validateStruct(payload)
	if fields == nil {
		t.Fatalf("expected malformed date to fail")
	}
	if _, ok := fields["date"]; !ok {
		t.Fatalf("expected date in field errors, got %v", fields)
	}
}

func TestAttendanceFilter(t *testing.T) {
	filter, fields := attendanceFilter("", "", "", "")
	if fields != nil {
		t.Fatalf("unexpected field errors: %v", fields)
	}
	if len(filter) != 0 {
		t.Fatalf("expected empty filter, got %v", filter)
	}

	filter, _ = attendanceFilter("abc", "", "", "")
	if filter["student_id"] != "abc" {
		t.Fatalf("expected student_id filter, got %v", filter)
	}

	filter, _ = attendanceFilter("", "2024-01-15", "", "")
	if filter["date"] != "2024-01-15" {
		t.Fatalf("expected exact date filter, got %v", filter)
	}

	filter, _ = attendanceFilter("", "", "2024-01-01", "2024-01-31")
	dateRange, ok := filter["date"].(bson.M)
	if !ok {
		t.Fatalf("expected range filter, got %v", filter)
	}
	if dateRange["$gte"] != "2024-01-01" || dateRange["$lte"] != "2024-01-31" {
		t.Fatalf("expected inclusive bounds, got %v", dateRange)
	}

	filter, _ = attendanceFilter("", "", "2024-01-01", "")
	dateRange = filter["date"].(bson.M)
	if _, ok := dateRange["$lte"]; ok {
		t.Fatalf("expected open upper bound, got %v", dateRange)
	}

	// Exact date and range combine with AND instead of overwriting.
	filter, _ = attendanceFilter("abc", "2024-02-01", "2024-01-01", "2024-01-31")
	clauses, ok := filter["$and"].([]bson.M)
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected two AND clauses, got %v", filter)
	}
	if filter["student_id"] != "abc" {
		t.Fatalf("expected student_id to survive, got %v", filter)
	}

	_, fields = attendanceFilter("", "not-a-date", "", "")
	if fields == nil {
		t.Fatalf("expected malformed on_date to be rejected")
	}
	if _, ok := fields["on_date"]; !ok {
		t.Fatalf("expected on_date in field errors, got %v", fields)
	}
}

func TestRenderAttendanceCSV(t *testing.T) {
	id := primitive.NewObjectID()
	docs := []bson.M{
		{"_id": id, "student_id": "abc", "date": "2024-01-15", "status": "Hadir"},
		{"_id": primitive.NewObjectID(), "student_id": "def", "date": "2024-01-16", "status": "Sakit"},
	}
	data, err := renderAttendanceCSV(docs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != "_id,student_id,date,status" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], id.Hex()+",abc,2024-01-15,Hadir") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
}

func TestRenderAttendanceCSVHeaderOnly(t *testing.T) {
	data, err := renderAttendanceCSV(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimRight(string(data), "\n") != "_id,student_id,date,status" {
		t.Fatalf("expected header only, got %q", string(data))
	}
}

func TestSerializeConvertsObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	doc := bson.M{"_id": id, "name": "Budi"}
	out := serialize(doc)
	if out["_id"] != id.Hex() {
		t.Fatalf("expected hex id, got %v", out["_id"])
	}
	if out["name"] != "Budi" {
		t.Fatalf("expected fields preserved, got %v", out)
	}
	if _, ok := doc["_id"].(primitive.ObjectID); !ok {
		t.Fatalf("expected source document untouched")
	}
}
