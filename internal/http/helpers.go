package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decodeJSON tolerates unknown body fields, so clients may PUT back a
// record they fetched, generated _id included.
func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "validation_error",
		"fields": fields,
	})
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct returns a field-to-reason map, or nil when payload passes.
func (s *Server) validateStruct(payload any) map[string]string {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "required"
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "datetime":
			fields[fe.Field()] = "must be a YYYY-MM-DD date"
		case "gte":
			fields[fe.Field()] = "must be >= " + fe.Param()
		case "lte":
			fields[fe.Field()] = "must be <= " + fe.Param()
		default:
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// serialize renders a stored document for the wire, with _id as hex.
func serialize(doc bson.M) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = value
	}
	if id, ok := out["_id"].(primitive.ObjectID); ok {
		out["_id"] = id.Hex()
	}
	return out
}

func serializeAll(docs []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, serialize(doc))
	}
	return out
}
