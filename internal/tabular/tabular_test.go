package tabular

import (
	"strings"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		none bool
	}{
		{"42", 42, false},
		{" 3.5 ", 3.5, false},
		{"1,200", 1200, false},
		{"12%", 12, false},
		{"1,200.50%", 1200.50, false},
		{"", 0, true},
		{"   ", 0, true},
		{"n/a", 0, true},
	}
	for _, tt := range tests {
		got := ParseFloat(tt.in)
		if tt.none {
			if got != nil {
				t.Errorf("ParseFloat(%q) = %v, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCompetition(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		none bool
	}{
		{"low", 33, false},
		{"Medium", 66, false},
		{"med", 66, false},
		{"HIGH", 100, false},
		{"0.5", 50, false},  // ratio form
		{"1", 100, false},   // ratio upper edge
		{"75", 75, false},   // already 0-100
		{"250", 100, false}, // clamped
		{"", 0, true},
		{"unknown", 0, true},
	}
	for _, tt := range tests {
		got := ParseCompetition(tt.in)
		if tt.none {
			if got != nil {
				t.Errorf("ParseCompetition(%q) = %v, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("ParseCompetition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadStripsBOMAndPadsShortRows(t *testing.T) {
	csv := "\ufeffkeyword,locale,volume\nhabit tracker,en-US,80\nmeditation\n"
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if !tab.HasColumn("keyword") {
		t.Fatalf("BOM not stripped from first header: %q", tab.Headers)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tab.Rows))
	}
	if tab.Rows[1]["keyword"] != "meditation" {
		t.Errorf("short row keyword = %q", tab.Rows[1]["keyword"])
	}
	if tab.Rows[1]["volume"] != "" {
		t.Errorf("short row volume = %q, want empty", tab.Rows[1]["volume"])
	}
}

func TestRowFloatUsesFirstPresentAlias(t *testing.T) {
	row := Row{"volume": "90", "installs": ""}
	if got := row.Float("tracker_volume", "volume"); got == nil || *got != 90 {
		t.Errorf("Float alias fallback = %v, want 90", got)
	}
	if got := row.Float("missing"); got != nil {
		t.Errorf("Float on missing column = %v, want nil", *got)
	}
	// First matching column wins even when a later alias also exists.
	row = Row{"rank": "5", "apple_rank": "2"}
	if got := row.Float("apple_rank", "rank"); got == nil || *got != 2 {
		t.Errorf("Float alias priority = %v, want 2", got)
	}
}

func TestRowFirst(t *testing.T) {
	row := Row{"keyword": "  ", "term": "yoga"}
	if got := row.First("keyword", "term"); got != "yoga" {
		t.Errorf("First = %q, want yoga", got)
	}
}
