package admin

import (
	"testing"
	"time"
)

func TestUserAdmin_DefaultOrderingIsNewestFirst(t *testing.T) {
	o := UserAdmin.DefaultOrdering()
	if o.Field != FieldCreatedAt || !o.Desc {
		t.Fatalf("expected -created_at, got %+v", o)
	}
}

func TestUserAdmin_ReadOnlyTimestamps(t *testing.T) {
	for _, f := range []string{FieldCreatedAt, FieldUpdatedAt} {
		if !UserAdmin.IsReadOnly(f) {
			t.Fatalf("%s should be read-only", f)
		}
	}
	if UserAdmin.IsReadOnly(FieldEmail) {
		t.Fatalf("email should be editable")
	}
}

func TestUserAdmin_Filterable(t *testing.T) {
	for _, f := range []string{FieldIsStaff, FieldIsSuperuser, FieldIsActive, FieldCreatedAt} {
		if !UserAdmin.IsFilterable(f) {
			t.Fatalf("%s should be filterable", f)
		}
	}
	if UserAdmin.IsFilterable(FieldPassword) {
		t.Fatalf("password must not be filterable")
	}
}

func TestUserAdmin_TimestampsFieldset(t *testing.T) {
	last := UserAdmin.Fieldsets[len(UserAdmin.Fieldsets)-1]
	if last.Name != "Timestamps" || len(last.Fields) != 2 {
		t.Fatalf("unexpected trailing fieldset: %+v", last)
	}
}

func TestParseOrdering(t *testing.T) {
	cases := []struct {
		param string
		want  Ordering
	}{
		{"", Ordering{Field: FieldCreatedAt, Desc: true}},
		{"email", Ordering{Field: FieldEmail}},
		{"-last_name", Ordering{Field: FieldLastName, Desc: true}},
		{"username", Ordering{Field: FieldUsername}},
		{"created_at", Ordering{Field: FieldCreatedAt}},
		{"password", Ordering{Field: FieldCreatedAt, Desc: true}},
		{"-$where", Ordering{Field: FieldCreatedAt, Desc: true}},
	}
	for _, tc := range cases {
		if got := UserAdmin.ParseOrdering(tc.param); got != tc.want {
			t.Fatalf("ParseOrdering(%q) = %+v, want %+v", tc.param, got, tc.want)
		}
	}
}

func TestParseBoolFilter(t *testing.T) {
	if v, ok := ParseBoolFilter("TRUE"); !ok || !v {
		t.Fatalf("expected true")
	}
	if v, ok := ParseBoolFilter("0"); !ok || v {
		t.Fatalf("expected false")
	}
	if _, ok := ParseBoolFilter("maybe"); ok {
		t.Fatalf("expected unrecognised value")
	}
}

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)

	from, to, ok := DateRange(DateToday, now)
	if !ok || !from.Equal(time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 5, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("today: %v %v %v", from, to, ok)
	}

	from, _, ok = DateRange(DatePast7Days, now)
	if !ok || !from.Equal(time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("past_7_days: %v", from)
	}

	from, to, ok = DateRange(DateThisMonth, now)
	if !ok || !from.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("this_month: %v %v", from, to)
	}

	from, to, ok = DateRange(DateThisYear, now)
	if !ok || from.Year() != 2026 || to.Year() != 2027 {
		t.Fatalf("this_year: %v %v", from, to)
	}

	if _, _, ok := DateRange("last_century", now); ok {
		t.Fatalf("unknown choice should not resolve")
	}
}
