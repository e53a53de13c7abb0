package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

// CoreSet is a set of core indices in [0, driver.MaxCores). The zero value
// is the empty set.
type CoreSet struct {
	bits [driver.MaxCores]bool
}

// NewCoreSet returns an empty set.
func NewCoreSet() CoreSet { return CoreSet{} }

// AllCores returns every index up to driver.MaxCores, clamped to the
// device's actual core count wherever it is consumed. Whether a given
// ParseCoreSpec("all") call should additionally set the sticky
// all_cores_enabled flag (§3) is a decision left to the caller
// (config.LaunchpadConfig.Enable/Replace), since CoreSet itself has no
// notion of "sticky".
func AllCores() CoreSet {
	var cs CoreSet
	for i := range cs.bits {
		cs.bits[i] = true
	}
	return cs
}

// Has reports whether core i is a member.
func (cs CoreSet) Has(i int) bool {
	if i < 0 || i >= driver.MaxCores {
		return false
	}
	return cs.bits[i]
}

// Set marks core i as a member.
func (cs *CoreSet) Set(i int) {
	if i >= 0 && i < driver.MaxCores {
		cs.bits[i] = true
	}
}

// Clear removes core i from the set.
func (cs *CoreSet) Clear(i int) {
	if i >= 0 && i < driver.MaxCores {
		cs.bits[i] = false
	}
}

// Count returns the number of member indices below numCores.
func (cs CoreSet) Count(numCores int) int {
	n := 0
	for i := 0; i < numCores && i < driver.MaxCores; i++ {
		if cs.bits[i] {
			n++
		}
	}
	return n
}

// Indices returns the sorted member indices below numCores.
func (cs CoreSet) Indices(numCores int) []int {
	var out []int
	for i := 0; i < numCores && i < driver.MaxCores; i++ {
		if cs.bits[i] {
			out = append(out, i)
		}
	}
	return out
}

// OutOfRange returns member indices that are >= numCores — enabled but
// beyond the device's actual core count (§4.3: "preserved... but produce a
// visible warning").
func (cs CoreSet) OutOfRange(numCores int) []int {
	var out []int
	for i := numCores; i < driver.MaxCores; i++ {
		if cs.bits[i] {
			out = append(out, i)
		}
	}
	return out
}

// Union returns a new set containing every member of cs and other.
func (cs CoreSet) Union(other CoreSet) CoreSet {
	var out CoreSet
	for i := range out.bits {
		out.bits[i] = cs.bits[i] || other.bits[i]
	}
	return out
}

// Subtract returns a new set with every member of other removed from cs.
func (cs CoreSet) Subtract(other CoreSet) CoreSet {
	var out CoreSet
	for i := range out.bits {
		out.bits[i] = cs.bits[i] && !other.bits[i]
	}
	return out
}

// ParseCoreSpec parses the grammar shared by the -c CLI flag and the
// :e/:c/:d commands:
//
//	spec := "all" | n | a:b | a,b,c
//
// "all" is matched case-insensitively; a:b is an inclusive range and a
// reversed range (b < a) is accepted as [b, a]; indices outside
// [0, driver.MaxCores) are dropped without error.
//
// Returns the parsed set and whether the spec was literally "all" (the
// caller decides whether that should also latch the sticky
// all_cores_enabled flag).
func ParseCoreSpec(spec string) (set CoreSet, isAll bool, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return CoreSet{}, false, fmt.Errorf("empty core spec")
	}
	if strings.EqualFold(spec, "all") {
		return AllCores(), true, nil
	}
	if strings.Contains(spec, ":") {
		parts := strings.SplitN(spec, ":", 2)
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errA != nil || errB != nil {
			return CoreSet{}, false, fmt.Errorf("invalid core range %q", spec)
		}
		if a > b {
			a, b = b, a
		}
		var cs CoreSet
		for i := a; i <= b; i++ {
			cs.Set(i)
		}
		return cs, false, nil
	}
	if strings.Contains(spec, ",") {
		var cs CoreSet
		for _, tok := range strings.Split(spec, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				return CoreSet{}, false, fmt.Errorf("invalid core index %q in list %q", tok, spec)
			}
			cs.Set(n)
		}
		return cs, false, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return CoreSet{}, false, fmt.Errorf("invalid core spec %q", spec)
	}
	var cs CoreSet
	cs.Set(n)
	return cs, false, nil
}
