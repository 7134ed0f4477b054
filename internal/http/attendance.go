package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"presensi/school/internal/model"
)

const dateLayout = "2006-01-02"

// Marking attendance upserts on (student_id, date): one record per student
// per day, last write wins on status. The write and the refetch are two
// store calls, not one atomic operation.
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var payload model.Attendance
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	key := bson.M{"student_id": payload.StudentID, "date": payload.Date}
	insertedAt := bson.M{"created_at": time.Now().UTC().Format(time.RFC3339)}
	if err := s.store.Upsert(r.Context(), model.CollectionAttendance, key, payload, insertedAt); err != nil {
		writeStoreError(w, err)
		return
	}
	doc, err := s.store.FindOne(r.Context(), model.CollectionAttendance, key)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serialize(doc))
}

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, fields := attendanceFilter(
		query.Get("student_id"),
		query.Get("on_date"),
		query.Get("start_date"),
		query.Get("end_date"),
	)
	if fields != nil {
		writeValidationError(w, fields)
		return
	}
	docs, err := s.store.GetDocuments(r.Context(), model.CollectionAttendance, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, serializeAll(docs))
}

func (s *Server) handleExportAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.store.Available() {
		writeError(w, http.StatusInternalServerError, "store_unavailable")
		return
	}
	query := r.URL.Query()
	filter, fields := attendanceFilter("", "", query.Get("start_date"), query.Get("end_date"))
	if fields != nil {
		writeValidationError(w, fields)
		return
	}
	docs, err := s.store.GetDocuments(r.Context(), model.CollectionAttendance, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	data, err := renderAttendanceCSV(docs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	oid, err := parseObjectID(chi.URLParam(r, "attendanceId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteByID(r.Context(), model.CollectionAttendance, oid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// attendanceFilter builds the list/export filter. All filters combine with
// logical AND; an exact date and a date range are intersected rather than
// one overriding the other. The second return value carries per-field
// validation problems.
func attendanceFilter(studentID, onDate, startDate, endDate string) (bson.M, map[string]string) {
	fields := map[string]string{}
	for name, value := range map[string]string{
		"on_date":    onDate,
		"start_date": startDate,
		"end_date":   endDate,
	} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, value); err != nil {
			fields[name] = "must be a YYYY-MM-DD date"
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}

	filter := bson.M{}
	if studentID != "" {
		filter["student_id"] = studentID
	}
	var clauses []bson.M
	if onDate != "" {
		clauses = append(clauses, bson.M{"date": onDate})
	}
	dateRange := bson.M{}
	if startDate != "" {
		dateRange["$gte"] = startDate
	}
	if endDate != "" {
		dateRange["$lte"] = endDate
	}
	if len(dateRange) > 0 {
		clauses = append(clauses, bson.M{"date": dateRange})
	}
	switch len(clauses) {
	case 1:
		for key, value := range clauses[0] {
			filter[key] = value
		}
	case 2:
		filter["$and"] = clauses
	}
	return filter, nil
}

// renderAttendanceCSV buffers the whole export; memory cost is linear in
// the number of matching rows.
func renderAttendanceCSV(docs []bson.M) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"_id", "student_id", "date", "status"}); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		row := serialize(doc)
		record := []string{
			stringField(row, "_id"),
			stringField(row, "student_id"),
			stringField(row, "date"),
			stringField(row, "status"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stringField(doc map[string]any, key string) string {
	value, ok := doc[key]
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return fmt.Sprint(value)
}
