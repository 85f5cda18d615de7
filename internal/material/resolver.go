package material

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// #region embedded-profiles

//go:embed profiles.yaml
var profilesYAML []byte

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// Registry holds the loaded profile set and its lookup indexes.
type Registry struct {
	profiles []Profile
	byID     map[string]*Profile
	byAlias  map[string]*Profile
}

// Load parses the embedded profile set. Duplicate IDs or aliases are
// rejected so a bad edit to the data file fails loudly at startup.
func Load() (*Registry, error) {
	return loadFrom(profilesYAML)
}

func loadFrom(data []byte) (*Registry, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse material profiles: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("material profiles: empty profile set")
	}
	r := &Registry{
		profiles: f.Profiles,
		byID:     make(map[string]*Profile, len(f.Profiles)),
		byAlias:  make(map[string]*Profile),
	}
	for i := range r.profiles {
		p := &r.profiles[i]
		id := strings.ToLower(p.ID)
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("material profiles: duplicate id %q", p.ID)
		}
		r.byID[id] = p
		for _, a := range p.Aliases {
			key := normalizeAlias(a)
			if prev, dup := r.byAlias[key]; dup && prev != p {
				return nil, fmt.Errorf("material profiles: alias %q claimed by %q and %q", a, prev.ID, p.ID)
			}
			r.byAlias[key] = p
		}
	}
	return r, nil
}

// Profiles returns the loaded set in file order.
func (r *Registry) Profiles() []Profile { return r.profiles }

// #endregion

// #region resolve

// familyDefaults maps the coarse input family to its generic profile.
var familyDefaults = map[Family]string{
	FamilyMetal:   "steel_generic",
	FamilyPolymer: "plastic_generic",
}

// fallbackUnknown is used when nothing matches at all. Steel is the
// median case across the property vector, so it biases the scorer the
// least.
const fallbackUnknown = "steel_generic"

// Resolve maps free-text material input to a profile. Resolution order:
// exact profile ID, alias match inside the text, family default,
// fallback. The source tag records which step fired.
func (r *Registry) Resolve(text string) Resolution {
	norm := normalizeAlias(text)

	if p, ok := r.byID[norm]; ok {
		return Resolution{Profile: *p, Source: SourceProfileID}
	}

	// Longest alias wins so "stainless steel" beats "steel". Ties break
	// on alias order to keep resolution deterministic.
	var best *Profile
	var bestAlias string
	lower := strings.ToLower(text)
	for alias, p := range r.byAlias {
		if len(alias) < len(bestAlias) {
			continue
		}
		if len(alias) == len(bestAlias) && alias >= bestAlias && bestAlias != "" {
			continue
		}
		if containsToken(lower, alias) {
			best, bestAlias = p, alias
		}
	}
	if best != nil {
		return Resolution{Profile: *best, Source: SourceAlias, MatchedText: bestAlias}
	}

	if id, ok := familyDefaults[ClassifyFamily(text)]; ok {
		return Resolution{Profile: *r.byID[id], Source: SourceFamilyDefault}
	}
	return Resolution{Profile: *r.byID[fallbackUnknown], Source: SourceFallbackUnknown}
}

func normalizeAlias(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// #endregion
