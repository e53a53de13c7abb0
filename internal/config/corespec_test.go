package config

import (
	"testing"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

func TestParseCoreSpecSingleton(t *testing.T) {
	for n := 0; n < 5; n++ {
		set, isAll, err := ParseCoreSpec(intToStr(n))
		if err != nil {
			t.Fatalf("parse(%d): unexpected error: %v", n, err)
		}
		if isAll {
			t.Fatalf("parse(%d): isAll should be false", n)
		}
		if !set.Has(n) {
			t.Fatalf("parse(%d): core %d not set", n, n)
		}
		if set.Count(driver.MaxCores) != 1 {
			t.Fatalf("parse(%d): want exactly one member, got %d", n, set.Count(driver.MaxCores))
		}
	}
}

func TestParseCoreSpecRange(t *testing.T) {
	set, isAll, err := ParseCoreSpec("2:5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isAll {
		t.Fatal("isAll should be false for a range")
	}
	for i := 2; i <= 5; i++ {
		if !set.Has(i) {
			t.Fatalf("core %d should be set", i)
		}
	}
	if set.Count(driver.MaxCores) != 4 {
		t.Fatalf("want 4 members, got %d", set.Count(driver.MaxCores))
	}
}

func TestParseCoreSpecRangeReversed(t *testing.T) {
	set, _, err := ParseCoreSpec("5:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 2; i <= 5; i++ {
		if !set.Has(i) {
			t.Fatalf("core %d should be set for reversed range", i)
		}
	}
}

func TestParseCoreSpecList(t *testing.T) {
	set, isAll, err := ParseCoreSpec("1,3,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isAll {
		t.Fatal("isAll should be false for a list")
	}
	want := map[int]bool{1: true, 3: true, 7: true}
	for i := 0; i < 10; i++ {
		if set.Has(i) != want[i] {
			t.Fatalf("core %d: got %v, want %v", i, set.Has(i), want[i])
		}
	}
}

func TestParseCoreSpecAll(t *testing.T) {
	set, isAll, err := ParseCoreSpec("all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isAll {
		t.Fatal("isAll should be true for \"all\"")
	}
	if set.Count(driver.MaxCores) != driver.MaxCores {
		t.Fatalf("want every core set, got %d", set.Count(driver.MaxCores))
	}
}

func TestParseCoreSpecErrors(t *testing.T) {
	cases := []string{"", "x", "1:x", "1,x", "-1:"}
	for _, c := range cases {
		if _, _, err := ParseCoreSpec(c); err == nil {
			t.Errorf("ParseCoreSpec(%q): expected error, got none", c)
		}
	}
}

func TestCoreSetOutOfRange(t *testing.T) {
	set, _, err := ParseCoreSpec("2,10,20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warn := set.OutOfRange(4)
	if len(warn) != 2 || warn[0] != 10 || warn[1] != 20 {
		t.Fatalf("unexpected out-of-range set: %v", warn)
	}
}

func TestCoreSetUnionSubtract(t *testing.T) {
	a, _, _ := ParseCoreSpec("1,2,3")
	b, _, _ := ParseCoreSpec("3,4")
	u := a.Union(b)
	for _, i := range []int{1, 2, 3, 4} {
		if !u.Has(i) {
			t.Fatalf("union missing core %d", i)
		}
	}
	s := a.Subtract(b)
	if !s.Has(1) || !s.Has(2) || s.Has(3) {
		t.Fatalf("subtract did not remove shared member 3")
	}
}

func intToStr(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}
