package grammar

import (
	"fmt"
	"math/rand"
)

// expansionState is the per-artifact mutable state the expansion engine
// threads explicitly through generation, rather than keeping leaf_mode and
// leaf_trigger as shared mutable fields on every value symbol.
type expansionState struct {
	rng *rand.Rand

	leafMode    bool
	leafTrigger int
}

func newExpansionState(rng *rand.Rand) *expansionState {
	return &expansionState{rng: rng}
}

// generateValue produces the text for one value symbol (§4.5). Every call
// is a "top-level value-generation call" that counts toward the artifact's
// leaf trigger until leaf mode arms.
func (g *Grammar) generateValue(v *valueSymbol, st *expansionState) (string, error) {
	if !st.leafMode {
		st.leafTrigger++
		if st.leafTrigger > g.constants.LeafTrigger {
			st.leafMode = true
		}
	}

	if len(v.alternatives) == 0 {
		return "", nil
	}

	var chosen string
	if st.leafMode {
		c, err := v.pickLeafForced(st.rng)
		if err != nil {
			return "", err
		}
		chosen = c
	} else {
		chosen = v.alternatives[st.rng.Intn(len(v.alternatives))]
	}

	return g.expandTemplate(chosen, st)
}

// expandTemplate runs the fixed evaluation order of §4.2/§4.3: meta-forms
// first, then element refs, then value refs, then variable refs. Each value
// ref is replaced by text that generateValue has already run through this
// same pipeline, so no stage leaves work for an earlier one, which is why
// the order is safe to run once, front to back.
func (g *Grammar) expandTemplate(tmpl string, st *expansionState) (string, error) {
	tmpl, err := evalMeta(tmpl, st.rng, g.constants.MaxRepeatPower)
	if err != nil {
		return "", err
	}
	tmpl, err = g.expandElementRefs(tmpl, st)
	if err != nil {
		return "", err
	}
	tmpl, err = g.expandValueRefs(tmpl, st)
	if err != nil {
		return "", err
	}
	return g.expandVariableRefs(tmpl, st)
}

// pickLeafForced implements the leaf-mode alternative selection of §4.5.
func (v *valueSymbol) pickLeafForced(rng *rand.Rand) (string, error) {
	if len(v.leaf) != 0 {
		return v.leaf[rng.Intn(len(v.leaf))], nil
	}

	favoured := make([]string, 0, len(v.alternatives))
	for _, a := range v.alternatives {
		if !repeatMetaPattern.MatchString(a) {
			favoured = append(favoured, a)
		}
	}
	if len(favoured) == 0 {
		favoured = v.alternatives
	}

	minimized := minimizedByRefCount(favoured)

	pathIdents := make(map[string]bool, len(v.leafPaths))
	for _, lp := range v.leafPaths {
		pathIdents[lp.hop] = true
	}

	n := len(minimized)
	start := rng.Intn(n)

	for i := 0; i < n; i++ {
		candidate := minimized[(start+i)%n]
		if allValueRefsKnownToPath(candidate, pathIdents) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no path to leaf in force-leaf mode in value %s", v.ident)
}

// minimizedByRefCount finds the smallest k in [1,7] for which at least one
// favoured alternative references k or fewer other values, and returns just
// those alternatives. If none qualifies within that range, it returns
// favoured unchanged.
func minimizedByRefCount(favoured []string) []string {
	for k := 1; k <= 7; k++ {
		var minimized []string
		for _, a := range favoured {
			if countValueRefs(a) <= k {
				minimized = append(minimized, a)
			}
		}
		if len(minimized) != 0 {
			return minimized
		}
	}
	return favoured
}

func allValueRefsKnownToPath(tmpl string, pathIdents map[string]bool) bool {
	for _, m := range valueRefPattern.FindAllStringSubmatch(tmpl, -1) {
		if !pathIdents[m[1]] {
			return false
		}
	}
	return true
}

// generateVariance produces the text for one variance symbol (§4.5: "is
// identical to the leaf-mode-off value path but samples from variance
// alternatives").
func (g *Grammar) generateVariance(v *varianceSymbol, st *expansionState) (string, error) {
	if len(v.alternatives) == 0 {
		return "", fmt.Errorf("variance %s has no alternatives", v.ident)
	}
	chosen := v.alternatives[st.rng.Intn(len(v.alternatives))]
	return g.expandTemplate(chosen, st)
}

// resolveVariableRef implements §4.3's !x! rule: reuse an existing element
// if one has been minted, otherwise synthesize exactly one default and
// remember its rendered declaration for the artifact preamble.
func (g *Grammar) resolveVariableRef(v *variableSymbol, st *expansionState) (string, error) {
	if v.counter > 0 {
		n := 1 + st.rng.Intn(v.counter)
		return fmt.Sprintf("%s%d", v.ident, n), nil
	}

	if len(v.defaults) == 0 {
		return "", fmt.Errorf("variable %s has no default template to synthesize from", v.ident)
	}

	d := v.defaults[st.rng.Intn(len(v.defaults))]
	v.counter = 1

	rendered := d.prefix + v.ident + "1" + d.suffix

	rendered, err := evalMeta(rendered, st.rng, g.constants.MaxRepeatPower)
	if err != nil {
		return "", err
	}
	rendered, err = g.expandValueRefs(rendered, st)
	if err != nil {
		return "", err
	}
	// Element refs are deliberately not expanded here: the variable is
	// being bootstrapped and hasn't issued any elements of its own yet.
	rendered, err = g.expandVariableRefs(rendered, st)
	if err != nil {
		return "", err
	}

	v.defaultDecl = rendered
	return v.ident + "1", nil
}

// expandElementRefs replaces every @x@ with a fresh element name from
// variable x, looping to a fixpoint rather than recursing.
func (g *Grammar) expandElementRefs(s string, st *expansionState) (string, error) {
	for {
		loc := elementRefPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			return s, nil
		}
		name := s[loc[2]:loc[3]]

		v, ok := g.variables[name]
		if !ok {
			return "", fmt.Errorf("element reference inconsistency: unknown variable %s", name)
		}

		s = s[:loc[0]] + v.newElement() + s[loc[1]:]
	}
}

// expandValueRefs replaces every +x+ with a freshly generated value x.
func (g *Grammar) expandValueRefs(s string, st *expansionState) (string, error) {
	for {
		loc := valueRefPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			return s, nil
		}
		name := s[loc[2]:loc[3]]

		v, ok := g.values[name]
		if !ok {
			return "", fmt.Errorf("value reference inconsistency: unknown value %s", name)
		}

		repl, err := g.generateValue(v, st)
		if err != nil {
			return "", err
		}
		s = s[:loc[0]] + repl + s[loc[1]:]
	}
}

// expandVariableRefs replaces every !x! with an existing or freshly
// synthesized element name from variable x.
func (g *Grammar) expandVariableRefs(s string, st *expansionState) (string, error) {
	for {
		loc := variableRefPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			return s, nil
		}
		name := s[loc[2]:loc[3]]

		v, ok := g.variables[name]
		if !ok {
			return "", fmt.Errorf("variable reference inconsistency: unknown variable %s", name)
		}

		repl, err := g.resolveVariableRef(v, st)
		if err != nil {
			return "", err
		}
		s = s[:loc[0]] + repl + s[loc[1]:]
	}
}
