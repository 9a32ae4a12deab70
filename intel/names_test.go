package intel

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"proc", "refinery"},
		{"weap", "war_factory"},
		{"fact.england", "construction_yard"},
		{"DOME", "radar"},
		{" harv ", "harvester"},
		{"矿车", "harvester"},
		{"兵营", "barracks"},
		{"猛犸坦克", "mammoth_tank"},
		{"", "unknown"},
		{".variant", "unknown"},
		{"zeppelin", "zeppelin"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.raw); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestLooksLikeBuilding(t *testing.T) {
	for _, name := range []string{"chrono_yard", "some_center", "克隆厂"} {
		if !looksLikeBuilding(name) {
			t.Errorf("%q should read as a building", name)
		}
	}
	for _, name := range []string{"rifleman", "zeppelin", ""} {
		if looksLikeBuilding(name) {
			t.Errorf("%q should not read as a building", name)
		}
	}
}

func TestCategorizeAndValues(t *testing.T) {
	if Categorize("mcv") != CategoryMCV {
		t.Errorf("mcv category = %q", Categorize("mcv"))
	}
	if Categorize("zeppelin") != CategoryUnknown {
		t.Errorf("unknown category = %q", Categorize("zeppelin"))
	}
	if unitValue("mcv") != 100 {
		t.Errorf("mcv value = %v", unitValue("mcv"))
	}
	if unitValue("zeppelin") != defaultUnitValue {
		t.Errorf("default value = %v", unitValue("zeppelin"))
	}
}
