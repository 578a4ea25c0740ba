package scenario

import (
	"fmt"
	"reflect"
)

// ComposeSpecs merges the NPI lists of multiple scenario specs over a common
// base. All specs must agree on geography, dates, and disease parameters;
// the first spec supplies every non-NPI field. Duplicate NPI names are
// rejected so a layered scenario never double-counts an intervention.
func ComposeSpecs(specs []*ScenarioSpec) (*ScenarioSpec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one spec file required")
	}

	base := specs[0]
	merged := *base
	merged.NPIs = nil

	seen := make(map[string]bool)
	for _, s := range specs {
		if s.Geography != base.Geography {
			return nil, fmt.Errorf("spec %q: geography differs from base spec %q", s.Name, base.Name)
		}
		if s.StartDate != base.StartDate || s.EndDate != base.EndDate {
			return nil, fmt.Errorf("spec %q: scenario span differs from base spec %q", s.Name, base.Name)
		}
		// DeepEqual because DistSpec carries a params map
		if !reflect.DeepEqual(s.Disease, base.Disease) {
			return nil, fmt.Errorf("spec %q: disease parameters differ from base spec %q", s.Name, base.Name)
		}
		for _, npi := range s.NPIs {
			if seen[npi.Name] {
				return nil, fmt.Errorf("duplicate npi %q across composed specs", npi.Name)
			}
			seen[npi.Name] = true
			merged.NPIs = append(merged.NPIs, npi)
		}
	}
	return &merged, nil
}
