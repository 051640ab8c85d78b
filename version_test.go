package swrn

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.8.4-SP33-HF2", Version{1, 8, 4, 33, 2}},
		{"1.8.4-SP33", Version{1, 8, 4, 33, 0}},
		{"1.8.4-SP33-Release", Version{1, 8, 4, 33, 0}},
		{"1.8.4-SP30-B6", Version{1, 8, 4, 30, -6}},
		{"1.8.4_SP12_HF1", Version{1, 8, 4, 12, 1}},
		{"2.0.1", Version{2, 0, 1, 0, 0}},
		{"garbage", Version{}},
		{"", Version{}},
	}
	for _, tt := range tests {
		if got := ParseVersion(tt.in); got != tt.want {
			t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	// ascending chain: each entry must sort strictly before the next
	chain := []string{
		"1.8.4-SP30-B6",
		"1.8.4-SP30",
		"1.8.4-SP30-HF1",
		"1.8.4-SP30-HF2",
		"1.8.4-SP33-B1",
		"1.8.4-SP33-Release",
		"1.8.4-SP33-HF2",
		"1.8.5-SP1",
		"2.0.0",
	}
	for i := 0; i < len(chain)-1; i++ {
		a, b := ParseVersion(chain[i]), ParseVersion(chain[i+1])
		if !a.Less(b) {
			t.Errorf("%s should order before %s", chain[i], chain[i+1])
		}
		if b.Less(a) {
			t.Errorf("%s should not order before %s", chain[i+1], chain[i])
		}
	}
}

func TestVersionCompareEqual(t *testing.T) {
	a := ParseVersion("1.8.4-SP33")
	b := ParseVersion("1.8.4-SP33-Release")
	if a.Compare(b) != 0 {
		t.Errorf("bare and -Release forms should compare equal, got %d", a.Compare(b))
	}
}

func TestPreviousVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.8.4-SP33-HF2", "1.8.4-SP33-HF1"},
		{"1.8.4-SP33-HF1", "1.8.4-SP33"},
		{"1.8.4-SP33-HF9e", "1.8.4-SP33-HF9d"},
		{"1.8.4-SP33-HF9a", "1.8.4-SP33-HF9"},
		{"1.8.4-SP30-B6", "1.8.4-SP30-B5"},
		{"1.8.4-SP30-B1", "1.8.4-SP30"},
		{"1.8.4-SP33", "1.8.4-SP32"},
		{"1.8.4-SP33-Release", "1.8.4-SP32"},
		{"1.8.4-SP1", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PreviousVersion(tt.in); got != tt.want {
			t.Errorf("PreviousVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SWRN_Version_1.8.4-SP33-HF2.pdf", "1.8.4-SP33-HF2"},
		{"SWRN Version-1.8.4-SP30-B6.pdf", "1.8.4-SP30-B6"},
		{"release_notes_version1.8.4-SP12.pdf", "1.8.4-SP12"},
		{"notes_without_marker.pdf", ""},
	}
	for _, tt := range tests {
		if got := FromFilename(tt.in); got != tt.want {
			t.Errorf("FromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		sp     int
		suffix string
		want   string
	}{
		{33, "HF2", "1.8.4-SP33-HF2"},
		{33, "", "1.8.4-SP33"},
		{33, "Release", "1.8.4-SP33"},
		{30, "b6", "1.8.4-SP30-B6"},
	}
	for _, tt := range tests {
		if got := BuildVersion("1.8.4", tt.sp, tt.suffix); got != tt.want {
			t.Errorf("BuildVersion(1.8.4, %d, %q) = %q, want %q", tt.sp, tt.suffix, got, tt.want)
		}
	}
}
