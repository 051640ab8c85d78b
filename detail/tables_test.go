package detail

import (
	"strings"
	"testing"
)

func TestParseFATable(t *testing.T) {
	text := "Factory Automation Changes\n" +
		"CEID-1201 Lot start event for chamber clean added\n" +
		"SVID 344 Chamber pressure status variable modified\n" +
		"DCID-88 Data collection set for purge timing\n"
	rows := parseFATable(text)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3: %+v", len(rows), rows)
	}
	if rows[0].Name != "CEID-1201" || rows[0].Action != "added" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Name != "SVID-344" || rows[1].Action != "modified" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].Name != "DCID-88" || rows[2].Action != "" {
		t.Errorf("row 2 = %+v (no action keyword in source)", rows[2])
	}
	if !strings.Contains(rows[0].Description, "Lot start event") {
		t.Errorf("row 0 description = %q", rows[0].Description)
	}
}

func TestParseRecipeTable(t *testing.T) {
	text := "Recipe Parameter Changes\n" +
		"GasFlowRampRate This parameter controls ramp speed range 0 - 100 default 10 modified\n" +
		"PurgeHoldTime Sets the purge hold duration default 5 added\n"
	rows := parseRecipeTable(text)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2: %+v", len(rows), rows)
	}
	if rows[0].Name != "GasFlowRampRate" {
		t.Errorf("row 0 name = %q", rows[0].Name)
	}
	if !strings.Contains(rows[0].NewValue, "range 0-100") || !strings.Contains(rows[0].NewValue, "default 10") {
		t.Errorf("row 0 value = %q", rows[0].NewValue)
	}
	if rows[1].Name != "PurgeHoldTime" || rows[1].Action != "added" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[1].NewValue != "default 5" {
		t.Errorf("row 1 value = %q", rows[1].NewValue)
	}
}

func TestParseUITable(t *testing.T) {
	text := "UI Changes\n" +
		"Recipe Editor This page shows the parameter paste dialog modified\n" +
		"Alarm Summary Displays acknowledgement state per alarm added\n"
	rows := parseUITable(text)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2: %+v", len(rows), rows)
	}
	if rows[0].Name != "Recipe Editor" || rows[0].Action != "modified" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Name != "Alarm Summary" || rows[1].Action != "added" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestParseAlarmTable(t *testing.T) {
	text := "Alarm Changes\n" +
		"Alarm ID 2041 Chamber pressure out of range during purge warning\n" +
		"Alarm 2042 Sensor cache stale critical modified\n"
	rows := parseAlarmTable(text)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2: %+v", len(rows), rows)
	}
	if rows[0].Name != "2041" || rows[0].NewValue != "warning" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].Action != "added" {
		t.Errorf("row 0 action = %q, want default added", rows[0].Action)
	}
	if rows[1].Name != "2042" || rows[1].NewValue != "critical" || rows[1].Action != "modified" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if !strings.Contains(rows[1].Description, "Sensor cache stale") {
		t.Errorf("row 1 description = %q", rows[1].Description)
	}
}

func TestTablesAbsent(t *testing.T) {
	text := "Solution\nThe software has been changed.\n"
	if rows := parseCVTable(text, "654321"); rows != nil {
		t.Errorf("cv rows = %+v, want nil", rows)
	}
	if rows := parseFATable(text); rows != nil {
		t.Errorf("fa rows = %+v, want nil", rows)
	}
	if rows := parseRecipeTable(text); rows != nil {
		t.Errorf("recipe rows = %+v, want nil", rows)
	}
	if rows := parseUITable(text); rows != nil {
		t.Errorf("ui rows = %+v, want nil", rows)
	}
	if rows := parseAlarmTable(text); rows != nil {
		t.Errorf("alarm rows = %+v, want nil", rows)
	}
}
