// Package taxonomy is the closed catalog of accent labels the classifier
// reports, and their grouping into dialect groups and broad families.
package taxonomy

import "strings"

// Label is a canonical (lowercase) accent identifier.
type Label string

// Labels in the order the CommonAccent model emits its output scores.
const (
	Africa        Label = "africa"
	Australia     Label = "australia"
	Bermuda       Label = "bermuda"
	Canada        Label = "canada"
	England       Label = "england"
	HongKong      Label = "hongkong"
	India         Label = "india"
	Ireland       Label = "ireland"
	Malaysia      Label = "malaysia"
	NewZealand    Label = "newzealand"
	Philippines   Label = "philippines"
	Scotland      Label = "scotland"
	Singapore     Label = "singapore"
	SouthAtlantic Label = "southatlandtic"
	US            Label = "us"
	Wales         Label = "wales"
)

// Group is a named set of labels that are interchangeable for matching.
type Group string

const (
	British  Group = "british"
	American Group = "american"
)

// Family is a coarse grouping used only to explain cross-family mismatches.
type Family string

const (
	BritishFamily  Family = "british-family"
	AmericanFamily Family = "american-family"
)

var all = []Label{
	Africa, Australia, Bermuda, Canada, England, HongKong, India, Ireland,
	Malaysia, NewZealand, Philippines, Scotland, Singapore, SouthAtlantic, US, Wales,
}

var groups = map[Group][]Label{
	British:  {England, Scotland, Wales, Ireland},
	American: {US, Canada},
}

var families = map[Family][]Label{
	BritishFamily:  {England, Scotland, Wales, Ireland},
	AmericanFamily: {US, Canada},
}

var (
	known    = make(map[Label]struct{}, len(all))
	groupOf  = make(map[Label]Group)
	familyOf = make(map[Label]Family)
)

func init() {
	for _, l := range all {
		known[l] = struct{}{}
	}
	for g, members := range groups {
		for _, l := range members {
			groupOf[l] = g
		}
	}
	for f, members := range families {
		for _, l := range members {
			familyOf[l] = f
		}
	}
}

// All returns every label in model output order.
func All() []Label {
	out := make([]Label, len(all))
	copy(out, all)
	return out
}

// Size is the number of labels the taxonomy declares.
func Size() int { return len(all) }

// Parse normalizes s and reports whether it names a taxonomy label.
func Parse(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	_, ok := known[l]
	return l, ok
}

// Known reports whether l is a member of the taxonomy.
func (l Label) Known() bool {
	_, ok := known[l]
	return ok
}

func (l Label) String() string { return string(l) }

// GroupOf returns the explicit group of l, if any. Unknown labels have none.
func GroupOf(l Label) (Group, bool) {
	g, ok := groupOf[l]
	return g, ok
}

// FamilyOf returns the broad family of l, if any.
func FamilyOf(l Label) (Family, bool) {
	f, ok := familyOf[l]
	return f, ok
}

// InFamily reports whether l belongs to f.
func InFamily(l Label, f Family) bool {
	got, ok := familyOf[l]
	return ok && got == f
}

// SameGroup returns the group shared by a and b, if they share one.
func SameGroup(a, b Label) (Group, bool) {
	ga, ok := groupOf[a]
	if !ok {
		return "", false
	}
	gb, ok := groupOf[b]
	if !ok || ga != gb {
		return "", false
	}
	return ga, true
}

// Members returns the labels of g.
func Members(g Group) []Label {
	src := groups[g]
	out := make([]Label, len(src))
	copy(out, src)
	return out
}
