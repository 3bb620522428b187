package reports

import (
	"sort"
	"testing"
)

func TestGet(t *testing.T) {
	knownReports := []string{
		"product_price_extremes",
		"sale_quantity_extremes",
		"category_best_sellers",
		"age_band_spending",
		"repeat_purchases",
		"customer_segments",
		"location_sales",
		"location_product_extremes",
	}

	for _, name := range knownReports {
		t.Run(name, func(t *testing.T) {
			r, err := Get(name)
			if err != nil {
				t.Fatalf("Failed to get report '%s': %v", name, err)
			}

			if r.Name != name {
				t.Errorf("Report name mismatch: expected '%s', got '%s'", name, r.Name)
			}
			if r.Description == "" {
				t.Error("Report description should not be empty")
			}
			if len(r.Columns) == 0 {
				t.Error("Report should declare output columns")
			}
			if r.Run == nil {
				t.Error("Report should have a Run function")
			}
		})
	}
}

func TestGetInvalidReport(t *testing.T) {
	_, err := Get("nonexistent")
	if err == nil {
		t.Error("Expected error for unknown report, got nil")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) < 8 {
		t.Fatalf("Expected at least 8 registered reports, got %d", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() should be sorted, got %v", names)
	}
}

func TestAllMatchesNames(t *testing.T) {
	names := Names()
	all := All()
	if len(all) != len(names) {
		t.Fatalf("All() returned %d reports, Names() returned %d", len(all), len(names))
	}
	for i, r := range all {
		if r.Name != names[i] {
			t.Errorf("All()[%d].Name = %q, want %q", i, r.Name, names[i])
		}
	}
}
