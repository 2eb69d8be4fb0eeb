package normalize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"trims and collapses", "  The   Matrix  ", "The Matrix"},
		{"double quotes become single", `He said "hi"`, "He said 'hi'"},
		{"markup stripped", "Spider-Man <b>2</b>", "Spider-Man b2b"},
		{"kept punctuation", "Mission: Impossible - Fallout (2018)!", "Mission: Impossible - Fallout (2018)!"},
		{"control chars stripped", "Alien\x00\x07", "Alien"},
		{"unicode letters survive", "Amélie", "Amélie"},
		{"nil", nil, ""},
		{"empty", "", ""},
		{"number input", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{"The Matrix", "Mission: Impossible", "He said 'hi'", "a b c"}
	for _, in := range inputs {
		once := Text(in)
		if twice := Text(once); twice != once {
			t.Errorf("Text not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   string
		wantOK bool
	}{
		{"day month year slashes", "20/08/1997", "1997-08-20", true},
		{"month day year slashes", "08/20/1997", "1997-08-20", true},
		{"already canonical", "1997-08-20", "1997-08-20", true},
		{"day month year dashes", "20-08-1997", "1997-08-20", true},
		{"year month day slashes", "1997/08/20", "1997-08-20", true},
		{"dotted", "20.08.1997", "1997-08-20", true},
		{"unpadded", "5/3/2001", "2001-03-05", true},
		{"bare year in text", "released around 1977 or so", "1977-01-01", true},
		{"year only", "1994", "1994-01-01", true},
		{"garbage", "not a date", "", false},
		{"out-of-range year", "1850", "", false},
		{"nil", nil, "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Date(%v) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDateIdempotent(t *testing.T) {
	got, ok := Date("1997-08-20")
	if !ok || got != "1997-08-20" {
		t.Fatalf("re-normalizing a canonical date changed it: %q, %v", got, ok)
	}
}

func TestFinancial(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"plain", "1000000", 1000000},
		{"currency and separators", "$1,000,000", 1000000},
		{"euro symbol", "€2,500", 2500},
		{"exponent", "1.5e7", 15000000},
		{"uppercase exponent", "2E6", 2000000},
		{"float string truncates", "999.99", 999},
		{"float input", 30000000.0, 30000000},
		{"negative clamps", "-500", 0},
		{"jpg contaminated", "poster.jpg", 0},
		{"extension mid-string", "1000.png000", 0},
		{"garbage", "a lot", 0},
		{"nil", nil, 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Financial(tt.in); got != tt.want {
				t.Errorf("Financial(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"single-quoted json", "[{'name': 'Action'}, {'name': 'Drama'}]", []string{"Action", "Drama"}},
		{"double-quoted json", `[{"name": "Action"}, {"name": "Drama"}]`, []string{"Action", "Drama"}},
		{"plain comma text", "Action, Drama", []string{"Action", "Drama"}},
		{"pipe delimited", "Action | Drama", []string{"Action", "Drama"}},
		{"semicolon delimited", "Action; Drama", []string{"Action", "Drama"}},
		{"and joined", "Action and Drama", []string{"Action", "Drama"}},
		{"ampersand joined", "Action & Drama", []string{"Action", "Drama"}},
		{"duplicates collapse", "Action, Drama, Action", []string{"Action", "Drama"}},
		{"single value", "Action", []string{"Action"}},
		{"short tokens dropped", "Action, , X", []string{"Action"}},
		{"brackets without names falls back", "[Action, Drama]", []string{"Action", "Drama"}},
		{"empty json list", "[]", nil},
		{"nil", nil, nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NameList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONAndPlainTextEquivalence(t *testing.T) {
	jsonish := NameList("[{'name': 'Action'}, {'name': 'Drama'}]")
	plain := NameList("Action, Drama")
	if !reflect.DeepEqual(jsonish, plain) {
		t.Errorf("encodings disagree: %v vs %v", jsonish, plain)
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"in range", 7.456, 7.46},
		{"string", "8.1", 8.1},
		{"upper bound", 10.0, 10.0},
		{"lower bound", 0.0, 0.0},
		{"over range", 11.0, 0},
		{"negative", -1.0, 0},
		{"garbage", "great", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rating(tt.in); got != tt.want {
				t.Errorf("Rating(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	if got := Count("2500"); got != 2500 {
		t.Errorf("Count(2500) = %d", got)
	}
	if got := Count(-3); got != 0 {
		t.Errorf("Count(-3) = %d, want 0", got)
	}
	if got := Count("many"); got != 0 {
		t.Errorf("Count(garbage) = %d, want 0", got)
	}
}

func TestStdDevForcedToZeroForSmallCounts(t *testing.T) {
	for _, count := range []int64{0, 1} {
		if got := StdDev(1.2345, count); got != 0 {
			t.Errorf("StdDev with count=%d = %v, want 0", count, got)
		}
	}
	if got := StdDev(1.23456789, 2); got != 1.2346 {
		t.Errorf("StdDev rounding = %v, want 1.2346", got)
	}
	if got := StdDev(-0.5, 5); got != 0 {
		t.Errorf("negative StdDev = %v, want 0", got)
	}
}

func TestTimestamp(t *testing.T) {
	got, ok := Timestamp(872035200)
	if !ok || got != "1997-08-20 00:00:00" {
		t.Errorf("Timestamp(872035200) = %q, %v", got, ok)
	}
	if _, ok := Timestamp("not a time"); ok {
		t.Error("garbage timestamp should be absent")
	}
	if _, ok := Timestamp(nil); ok {
		t.Error("nil timestamp should be absent")
	}
	if got, ok := Timestamp("1997-08-20 00:00:00"); !ok || got != "1997-08-20 00:00:00" {
		t.Errorf("formatted timestamp should pass through, got %q, %v", got, ok)
	}
}
