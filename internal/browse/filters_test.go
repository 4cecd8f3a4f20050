package browse

import "testing"

func TestSearchClearsStructuredFilters(t *testing.T) {
	var f FilterState
	f.ToggleCategory(3)
	f.ToggleCategory(7)
	f.SetTimeFilter(TimeThisWeek)
	f.SetSizeBucket("1-10 GB")

	f.SetSearchQuery("elden")

	if len(f.Categories()) != 0 {
		t.Error("search must clear selected categories")
	}
	if f.TimeFilter() != TimeNone {
		t.Error("search must clear the time filter")
	}
	if f.SizeBucket() != "" {
		t.Error("search must clear the size bucket")
	}
	if !f.Searching() || f.HasStructured() {
		t.Error("state must be in pure search mode")
	}
}

func TestStructuredFilterClearsSearch(t *testing.T) {
	var f FilterState
	f.SetSearchQuery("elden")

	f.SetTimeFilter(TimeToday)
	if f.SearchQuery() != "" {
		t.Error("structured filter must clear the search query")
	}
	if !f.HasStructured() {
		t.Error("time filter should be active")
	}
}

func TestToggleCategoryPreservesOrder(t *testing.T) {
	var f FilterState
	f.ToggleCategory(5)
	f.ToggleCategory(2)
	f.ToggleCategory(9)
	f.ToggleCategory(2) // remove middle

	got := f.Categories()
	if len(got) != 2 || got[0] != 5 || got[1] != 9 {
		t.Errorf("expected [5 9], got %v", got)
	}
	if f.HasCategory(2) {
		t.Error("category 2 should be deselected")
	}
}

func TestSizeBucketVocabulary(t *testing.T) {
	tests := []struct {
		label    string
		min, max int64
		ok       bool
	}{
		{"< 1 GB", 0, 1024, true},
		{"1-10 GB", 1024, 10240, true},
		{"10-25 GB", 10240, 25600, true},
		{"25-40 GB", 25600, 40960, true},
		{"40-60 GB", 40960, 61440, true},
		{"> 60 GB", 61440, 0, true},
		{"1-10GB", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r, ok := SizeBucketRange(tt.label)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if r.MinMB != tt.min || r.MaxMB != tt.max {
				t.Errorf("range = {%d %d}, want {%d %d}", r.MinMB, r.MaxMB, tt.min, tt.max)
			}
		})
	}
}

func TestSetSizeBucketUnknownClears(t *testing.T) {
	var f FilterState
	f.SetSizeBucket("1-10 GB")
	f.SetSizeBucket("11-20 GB")
	if f.SizeBucket() != "" {
		t.Errorf("unknown bucket should clear the dimension, got %q", f.SizeBucket())
	}
}

func TestTimeFilterMapping(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Today", 1},
		{"This Week", 7},
		{"This Month", 30},
		{"Last Year", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseTimeFilter(tt.in).DaysAgo(); got != tt.want {
			t.Errorf("ParseTimeFilter(%q).DaysAgo() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
