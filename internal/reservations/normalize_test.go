package reservations

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-01", "2026-09-01"},
		{"01.09.2026", "2026-09-01"},
		{"01/09/2026", "2026-09-01"},
		{"2026/09/01", "2026-09-01"},
		{"  2026-09-01  ", "2026-09-01"},
	}
	for _, tc := range cases {
		got, err := NormalizeDate(tc.in)
		if err != nil {
			t.Errorf("NormalizeDate(%q) hata döndü: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, beklenen %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	for _, in := range []string{"", "dün", "31.02.2026", "2026-13-01"} {
		if got, err := NormalizeDate(in); err == nil {
			t.Errorf("NormalizeDate(%q) hata beklenirken %q döndü", in, got)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"19:30", "19:30"},
		{"19:30:00", "19:30"},
		{"09:05", "09:05"},
		{" 19:30 ", "19:30"},
	}
	for _, tc := range cases {
		got, err := NormalizeTime(tc.in)
		if err != nil {
			t.Errorf("NormalizeTime(%q) hata döndü: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeTime(%q) = %q, beklenen %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTimeInvalid(t *testing.T) {
	for _, in := range []string{"", "akşam", "25:00", "19.30"} {
		if got, err := NormalizeTime(in); err == nil {
			t.Errorf("NormalizeTime(%q) hata beklenirken %q döndü", in, got)
		}
	}
}
