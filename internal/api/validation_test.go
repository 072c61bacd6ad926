package api

import "testing"

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2024-03-30"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	if d, err := parseDate(" 2024-01-02 "); err != nil || d.Day() != 2 {
		t.Errorf("trimmed date: %v %v", d, err)
	}
	for _, bad := range []string{"", "30/03/2024", "2024-3-30", "2024-13-01", "not-a-date"} {
		if _, err := parseDate(bad); err != ErrInvalidDate {
			t.Errorf("parseDate(%q): got %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestParseHHMM(t *testing.T) {
	got, err := parseHHMM("09:00")
	if err != nil || got != "09:00" {
		t.Errorf("parseHHMM(09:00) = %q, %v", got, err)
	}
	if got, _ := parseHHMM("23:59"); got != "23:59" {
		t.Errorf("parseHHMM(23:59) = %q", got)
	}
	for _, bad := range []string{"", "9h30", "25:00", "12:60", "12"} {
		if _, err := parseHHMM(bad); err != ErrInvalidTime {
			t.Errorf("parseHHMM(%q): got %v, want ErrInvalidTime", bad, err)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if !validEmail("ana@clinica.com") {
		t.Error("valid email rejected")
	}
	for _, bad := range []string{"", "ana", "ana@", "@clinica.com", "a b@c.com"} {
		if validEmail(bad) {
			t.Errorf("invalid email accepted: %q", bad)
		}
	}
}
