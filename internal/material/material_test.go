package material

import "testing"

// #region registry

func mustLoad(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

func TestLoadEmbeddedProfiles(t *testing.T) {
	r := mustLoad(t)
	want := []string{"steel_generic", "aluminum_generic", "stainless_generic", "titanium_generic", "plastic_generic"}
	got := make(map[string]bool)
	for _, p := range r.Profiles() {
		got[p.ID] = true
	}
	for _, id := range want {
		if !got[id] {
			t.Errorf("missing profile %q", id)
		}
	}
}

func TestLoadRejectsDuplicateAlias(t *testing.T) {
	data := []byte(`
profiles:
  - id: a
    family: STEEL
    aliases: [steel]
    properties: {machinability: MEDIUM}
  - id: b
    family: STEEL
    aliases: [steel]
    properties: {machinability: MEDIUM}
`)
	if _, err := loadFrom(data); err == nil {
		t.Fatal("expected duplicate alias error")
	}
}

// #endregion

// #region resolve

func TestResolveOrder(t *testing.T) {
	r := mustLoad(t)
	cases := []struct {
		name    string
		text    string
		wantID  string
		wantSrc ResolutionSource
	}{
		{"exact id", "steel_generic", "steel_generic", SourceProfileID},
		{"exact id upper", "ALUMINUM_GENERIC", "aluminum_generic", SourceProfileID},
		{"alias plain", "steel", "steel_generic", SourceAlias},
		{"alias british spelling", "aluminium", "aluminum_generic", SourceAlias},
		{"longest alias wins", "stainless steel 316L bracket", "stainless_generic", SourceAlias},
		{"grade alias", "Ti-6Al-4V", "titanium_generic", SourceAlias},
		{"polymer alias", "black ABS housing", "plastic_generic", SourceAlias},
		{"family default metal", "some weird alloy", "steel_generic", SourceFamilyDefault},
		{"family default polymer", "glass-filled polymer", "plastic_generic", SourceFamilyDefault},
		{"fallback", "unobtainium", "steel_generic", SourceFallbackUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tc.text)
			if got.Profile.ID != tc.wantID {
				t.Errorf("Resolve(%q) profile = %q, want %q", tc.text, got.Profile.ID, tc.wantID)
			}
			if got.Source != tc.wantSrc {
				t.Errorf("Resolve(%q) source = %q, want %q", tc.text, got.Source, tc.wantSrc)
			}
		})
	}
}

func TestResolveDoesNotMatchSubstrings(t *testing.T) {
	r := mustLoad(t)
	// "plate" must not trip the "pla" alias.
	got := r.Resolve("base plate")
	if got.Source == SourceAlias && got.Profile.ID == "plastic_generic" {
		t.Fatalf("substring alias match: %+v", got)
	}
}

// #endregion

// #region family

func TestClassifyFamily(t *testing.T) {
	cases := []struct {
		text string
		want Family
	}{
		{"6061 aluminum", FamilyMetal},
		{"stainless 304", FamilyMetal},
		{"mild steel", FamilyMetal},
		{"titanium grade 5", FamilyMetal},
		{"ABS", FamilyPolymer},
		{"nylon pa12", FamilyPolymer},
		{"PETG print", FamilyPolymer},
		{"wood", FamilyUnknown},
		{"", FamilyUnknown},
		{"metal-filled plastic", FamilyMetal},
	}
	for _, tc := range cases {
		if got := ClassifyFamily(tc.text); got != tc.want {
			t.Errorf("ClassifyFamily(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// #endregion
