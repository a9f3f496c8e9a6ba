package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/compta", "postgres://u:p@localhost:5432/compta"},
		{"  \"postgres://u@h/compta\"  ", "postgres://u@h/compta"},
		{"host=localhost user=compta dbname=compta", "host=localhost user=compta dbname=compta sslmode=disable"},
		{"host=localhost user=postgres", "host=localhost user=postgres dbname=compta sslmode=disable"},
		{"host=localhost   user=compta  dbname=compta sslmode=require", "host=localhost user=compta dbname=compta sslmode=require"},
		{"", ""},
		{"not a dsn", "not a dsn"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=localhost port=5432 user=compta password=pw dbname=compta sslmode=disable")
	want := "postgres://compta:pw@localhost:5432/compta?sslmode=disable"
	if got != want {
		t.Errorf("ToURLDSN = %q, want %q", got, want)
	}
	// missing required parts returns input unchanged
	in := "host=localhost"
	if got := ToURLDSN(in); got != in {
		t.Errorf("partial DSN must pass through, got %q", got)
	}
}
