package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"presensi/school/internal/db"
	"presensi/school/internal/model"
)

// Students

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var payload model.Student
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	id, err := s.store.CreateDocument(r.Context(), model.CollectionStudent, payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"_id": id})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.GetDocuments(r.Context(), model.CollectionStudent, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, serializeAll(docs))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	oid, err := parseObjectID(chi.URLParam(r, "studentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var payload model.Student
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	if err := s.store.UpdateByID(r.Context(), model.CollectionStudent, oid, payload); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Deleting a student removes its attendance and grade records first, then
// the student itself. The steps are not atomic.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "studentId")
	oid, err := parseObjectID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if _, err := s.store.DeleteMany(r.Context(), model.CollectionAttendance, bson.M{"student_id": id}); err != nil {
		writeStoreError(w, err)
		return
	}
	if _, err := s.store.DeleteMany(r.Context(), model.CollectionGrade, bson.M{"student_id": id}); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.DeleteByID(r.Context(), model.CollectionStudent, oid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Agendas

func (s *Server) handleCreateAgenda(w http.ResponseWriter, r *http.Request) {
	var payload model.Agenda
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	id, err := s.store.CreateDocument(r.Context(), model.CollectionAgenda, payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"_id": id})
}

func (s *Server) handleListAgendas(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.GetDocuments(r.Context(), model.CollectionAgenda, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, serializeAll(docs))
}

func (s *Server) handleUpdateAgenda(w http.ResponseWriter, r *http.Request) {
	oid, err := parseObjectID(chi.URLParam(r, "agendaId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var payload model.Agenda
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	if err := s.store.UpdateByID(r.Context(), model.CollectionAgenda, oid, payload); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteAgenda(w http.ResponseWriter, r *http.Request) {
	oid, err := parseObjectID(chi.URLParam(r, "agendaId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteByID(r.Context(), model.CollectionAgenda, oid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Grades

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var payload model.Grade
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if fields := s.validateStruct(payload); fields != nil {
		writeValidationError(w, fields)
		return
	}
	id, err := s.store.CreateDocument(r.Context(), model.CollectionGrade, payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"_id": id})
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if studentID := r.URL.Query().Get("student_id"); studentID != "" {
		filter["student_id"] = studentID
	}
	docs, err := s.store.GetDocuments(r.Context(), model.CollectionGrade, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, serializeAll(docs))
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	oid, err := parseObjectID(chi.URLParam(r, "gradeId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteByID(r.Context(), model.CollectionGrade, oid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrUnavailable):
		writeError(w, http.StatusInternalServerError, "store_unavailable")
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
