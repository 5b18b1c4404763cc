// Package admin declares how the User entity is presented in the operator
// console: listed columns, filters, search fields, default ordering and which
// fields are read-only. The values are pure configuration; the admin service
// and handlers consult them instead of hard-coding column names.
package admin

import (
	"strings"
	"time"
)

// Field names as they appear on the wire and in storage.
const (
	FieldID          = "id"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldIsStaff     = "is_staff"
	FieldIsSuperuser = "is_superuser"
	FieldIsActive    = "is_active"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// Date filter choices accepted for created_at.
const (
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
)

// Fieldset groups fields on the detail view. An empty Name is the untitled head section.
type Fieldset struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// ModelAdmin is the console configuration for one entity.
type ModelAdmin struct {
	ListDisplay    []string   `json:"list_display"`
	ListFilter     []string   `json:"list_filter"`
	SearchFields   []string   `json:"search_fields"`
	Ordering       []string   `json:"ordering"`
	ReadOnlyFields []string   `json:"readonly_fields"`
	Fieldsets      []Fieldset `json:"fieldsets"`
}

// UserAdmin is the console configuration for accounts.
var UserAdmin = ModelAdmin{
	ListDisplay:    []string{FieldEmail, FieldFirstName, FieldLastName, FieldIsStaff, FieldCreatedAt},
	ListFilter:     []string{FieldIsStaff, FieldIsSuperuser, FieldIsActive, FieldCreatedAt},
	SearchFields:   []string{FieldUsername, FieldEmail, FieldFirstName, FieldLastName},
	Ordering:       []string{"-" + FieldCreatedAt},
	ReadOnlyFields: []string{FieldCreatedAt, FieldUpdatedAt},
	Fieldsets: []Fieldset{
		{Name: "", Fields: []string{FieldUsername, FieldPassword}},
		{Name: "Personal info", Fields: []string{FieldFirstName, FieldLastName, FieldEmail}},
		{Name: "Permissions", Fields: []string{FieldIsActive, FieldIsStaff, FieldIsSuperuser}},
		{Name: "Timestamps", Fields: []string{FieldCreatedAt, FieldUpdatedAt}},
	},
}

// Ordering is a single sort key. Desc is true for a leading "-".
type Ordering struct {
	Field string
	Desc  bool
}

func (m ModelAdmin) IsFilterable(field string) bool {
	return contains(m.ListFilter, field)
}

func (m ModelAdmin) IsReadOnly(field string) bool {
	return contains(m.ReadOnlyFields, field)
}

// DefaultOrdering returns the first configured ordering key.
func (m ModelAdmin) DefaultOrdering() Ordering {
	if len(m.Ordering) == 0 {
		return Ordering{Field: FieldID}
	}
	return parseKey(m.Ordering[0])
}

// ParseOrdering turns a "?ordering=" value into a sort key. Only columns that
// are listed, plus username and the configured default, may be sorted on;
// anything else yields the default ordering.
func (m ModelAdmin) ParseOrdering(param string) Ordering {
	param = strings.TrimSpace(param)
	if param == "" {
		return m.DefaultOrdering()
	}
	o := parseKey(param)
	def := m.DefaultOrdering()
	if o.Field == def.Field || o.Field == FieldUsername || contains(m.ListDisplay, o.Field) {
		return o
	}
	return def
}

// ParseBoolFilter accepts the usual spellings of a boolean query value.
// ok is false when the value is empty or not recognised.
func ParseBoolFilter(v string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// DateRange resolves a created_at choice into [from, to) relative to now.
func DateRange(choice string, now time.Time) (from, to time.Time, ok bool) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch choice {
	case DateToday:
		return today, tomorrow, true
	case DatePast7Days:
		return today.AddDate(0, 0, -7), tomorrow, true
	case DateThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, 0), true
	case DateThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(1, 0, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func parseKey(key string) Ordering {
	if strings.HasPrefix(key, "-") {
		return Ordering{Field: strings.TrimPrefix(key, "-"), Desc: true}
	}
	return Ordering{Field: key}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
