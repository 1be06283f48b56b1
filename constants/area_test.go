package constants

import "testing"

func TestNormalizeArea(t *testing.T) {
	tests := []struct {
		in   string
		want Area
	}{
		{"Mathematics", Math},
		{"Algebra I pass rate", Math},
		{"Reading and Literacy", ELA},
		{"English Language Arts", ELA},
		{"Sense of Belonging", SEL},
		{"Attendance", SEL},
		{"STEM pathways", Science},
		{"9th Grade Success", NinthGradeSuccess},
		{"Ninth Grade on-track", NinthGradeSuccess},
		{"Graduation rate", Graduation},
		{"Postsecondary readiness", Graduation},
		{"", OtherArea},
		{"Family partnerships", OtherArea},
		// first match wins over later keyword groups
		{"Algebra and literacy support", Math},
	}
	for _, tt := range tests {
		if got := NormalizeArea(tt.in); got != tt.want {
			t.Errorf("NormalizeArea(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel(" Middle "); !ok || l != Middle {
		t.Fatalf("ParseLevel(Middle) = %q, %v", l, ok)
	}
	if _, ok := ParseLevel("district"); ok {
		t.Fatal("ParseLevel(district) should not parse")
	}
	if got := High.PDFFileName("2025-2026"); got != "High School 2025-2026 SIPs.pdf" {
		t.Fatalf("PDFFileName = %q", got)
	}
}
