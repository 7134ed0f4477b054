package model

import (
	"reflect"
	"strings"
)

// Collection names, one per entity.
const (
	CollectionStudent    = "student"
	CollectionAttendance = "attendance"
	CollectionAgenda     = "agenda"
	CollectionGrade      = "grade"
	CollectionAdminUser  = "adminuser"
)

// Attendance status variants. Anything else is rejected at the boundary.
const (
	StatusHadir = "Hadir"
	StatusAlfa  = "Alfa"
	StatusIzin  = "Izin"
	StatusSakit = "Sakit"
)

type Student struct {
	Name      string `json:"name" bson:"name" validate:"required"`
	ClassName string `json:"className" bson:"className" validate:"required"`
}

type Attendance struct {
	StudentID string `json:"student_id" bson:"student_id" validate:"required"`
	Date      string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" bson:"status" validate:"required,oneof=Hadir Alfa Izin Sakit"`
}

type Agenda struct {
	Title string `json:"title" bson:"title" validate:"required"`
	Date  string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Note  string `json:"note,omitempty" bson:"note"`
}

type Grade struct {
	StudentID string  `json:"student_id" bson:"student_id" validate:"required"`
	Subject   string  `json:"subject" bson:"subject" validate:"required"`
	Score     float64 `json:"score" bson:"score" validate:"gte=0,lte=100"`
	Date      string  `json:"date,omitempty" bson:"date" validate:"omitempty,datetime=2006-01-02"`
}

type AdminUser struct {
	Username string `json:"username" bson:"username" validate:"required"`
	Password string `json:"password" bson:"password" validate:"required"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

// Schema returns a field-name to type-name map for every entity, keyed by
// collection name. Backs the /schema introspection endpoint.
func Schema() map[string]map[string]string {
	return map[string]map[string]string{
		CollectionStudent:    fieldTypes(Student{}),
		CollectionAttendance: fieldTypes(Attendance{}),
		CollectionAgenda:     fieldTypes(Agenda{}),
		CollectionGrade:      fieldTypes(Grade{}),
		CollectionAdminUser:  fieldTypes(AdminUser{}),
	}
}

func fieldTypes(entity any) map[string]string {
	t := reflect.TypeOf(entity)
	fields := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("bson")
		if idx := strings.IndexByte(name, ','); idx >= 0 {
			name = name[:idx]
		}
		if name == "" {
			name = field.Name
		}
		fields[name] = field.Type.String()
	}
	return fields
}
