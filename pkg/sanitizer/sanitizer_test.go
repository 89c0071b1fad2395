package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Teeth Orthodontics  ", want: "Teeth Orthodontics"},
		{name: "inner whitespace", input: "Cavity\t\n  Protection", want: "Cavity Protection"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "unicode kept", input: " Dr. Zoë Ahmed ", want: "Dr. Zoë Ahmed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got := TrimAndNormalize(TrimAndNormalize(tt.input)); got != tt.want {
				t.Errorf("TrimAndNormalize is not idempotent for %q", tt.input)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "us national", input: "(201) 555-0123", want: "+12015550123"},
		{name: "already e164", input: "+12015550123", want: "+12015550123"},
		{name: "bangladesh international", input: "+8801712345678", want: "+8801712345678"},
		{name: "empty", input: "  ", want: ""},
		{name: "garbage", input: "call me", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "http://I.ibb.co/abc/Doctor.png", want: "https://i.ibb.co/abc/Doctor.png"},
		{input: "i.ibb.co/x/", want: "https://i.ibb.co/x"},
		{input: "", want: ""},
		{input: "https://", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots([]string{" 08.00 AM - 08.30 AM", "", "08.30 AM - 09.00 AM", "08.00 AM -  08.30 AM"})
	want := []string{"08.00 AM - 08.30 AM", "08.30 AM - 09.00 AM"}

	if len(got) != len(want) {
		t.Fatalf("NormalizeSlots() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeSlots()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if empty := NormalizeSlots(nil); empty == nil || len(empty) != 0 {
		t.Errorf("NormalizeSlots(nil) = %#v, want empty non-nil slice", empty)
	}
}
