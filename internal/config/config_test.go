package config

import "testing"

func TestLaunchpadConfigReplace(t *testing.T) {
	c := New()
	set, isAll, _ := ParseCoreSpec("0,1")
	c.Replace(set, isAll)
	if c.EnabledCores().Count(8) != 2 {
		t.Fatalf("want 2 enabled cores, got %d", c.EnabledCores().Count(8))
	}
	if c.AllCoresEnabled() {
		t.Fatal("allCoresEnabled should not latch for a non-all spec")
	}
}

func TestLaunchpadConfigEnableIsAdditive(t *testing.T) {
	c := New()
	first, _, _ := ParseCoreSpec("0")
	c.Replace(first, false)

	second, _, _ := ParseCoreSpec("2")
	c.Enable(second, false)

	if !c.EnabledCores().Has(0) {
		t.Fatal("enable should preserve previously-enabled core 0")
	}
	if !c.EnabledCores().Has(2) {
		t.Fatal("enable should add core 2")
	}
	if c.EnabledCores().Count(8) != 2 {
		t.Fatalf("want exactly 2 enabled cores, got %d", c.EnabledCores().Count(8))
	}
}

func TestLaunchpadConfigDisableClearsAllFlag(t *testing.T) {
	c := New()
	all, isAll, _ := ParseCoreSpec("all")
	c.Replace(all, isAll)
	if !c.AllCoresEnabled() {
		t.Fatal("expected allCoresEnabled to latch")
	}

	one, _, _ := ParseCoreSpec("3")
	c.Disable(one)
	if c.AllCoresEnabled() {
		t.Fatal("disable should clear the sticky all flag")
	}
	if c.EnabledCores().Has(3) {
		t.Fatal("core 3 should have been disabled")
	}
}

func TestLaunchpadConfigExecutablePath(t *testing.T) {
	c := New()
	if c.ExecutablePath() != "" {
		t.Fatal("new config should have no executable path")
	}
	c.SetExecutablePath("/tmp/prog.bin")
	if c.ExecutablePath() != "/tmp/prog.bin" {
		t.Fatalf("got %q", c.ExecutablePath())
	}
}
