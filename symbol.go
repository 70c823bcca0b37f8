// Package grammar implements a grammar-driven test-case generator.
//
// A grammar is a text description of how to assemble textual artifacts out
// of three kinds of named symbols:
//
//   - value symbols, a named choice among alternative templates
//   - variable symbols, a named place that mints fresh "<ident><N>" names
//   - variance symbols, a top-level production the engine samples from to
//     build the body of each artifact
//
// # Basic usage
//
//   - Parse a grammar into a *Grammar
//   - Resolve links every +value+ / !variable! / @element@ reference inside
//     it to the symbol it names
//   - AnalyzeLeafPaths precomputes, for every value symbol, a path toward a
//     leaf alternative (one containing no further value reference), so that
//     generation can always be forced to terminate
//   - Emit composes one artifact: prefix data, a preamble of any variable
//     defaults that got synthesized along the way, the variance body, and
//     suffix data
//
// # Grammar syntax
//
//	%%% this is a comment
//	%const% VARIANCE_MAX := 3
//	%section% := value
//	greeting :=
//		hello
//		hi there
//
//	%section% := variance
//	top :=
//		+greeting+, world!
//
// Templates may reference other symbols: +ident+ re-generates value ident,
// !ident! draws (or mints) a name from variable ident, and @ident@ mints a
// fresh name from variable ident unconditionally. %repeat%(body, "sep") and
// %range%(a-b) are meta-forms evaluated before those references are
// expanded; see meta.go.
//
// Every value reachable from a variance must, directly or through other
// values, reach an alternative containing no further value reference —
// otherwise the engine cannot force termination once its expansion budget
// (§ LEAF_TRIGGER) runs out, and Emit reports a fatal error the first time
// it would need to.
package grammar

import "fmt"

// symbolKind names the three symbol shapes sharing xrefs and an identifier.
// The three kinds share the embedded xrefs header rather than an
// inheritance hierarchy or an interface per kind; Grammar keeps each kind
// in its own table.
type symbolKind int

const (
	kindValue symbolKind = iota
	kindVariable
	kindVariance
)

// xrefs is the common header every symbol carries: its identifier and the
// three sets of reference names recorded while its templates were parsed.
// Before Resolve runs, the maps hold only placeholders (nil values); after,
// every entry points at its target symbol.
type xrefs struct {
	ident string

	valueXref    map[string]*valueSymbol
	variableXref map[string]*variableSymbol
	elementXref  map[string]*variableSymbol
}

func newXrefs(ident string) xrefs {
	return xrefs{
		ident:        ident,
		valueXref:    map[string]*valueSymbol{},
		variableXref: map[string]*variableSymbol{},
		elementXref:  map[string]*variableSymbol{},
	}
}

func (x *xrefs) noteValueRef(name string)    { x.valueXref[name] = nil }
func (x *xrefs) noteVariableRef(name string) { x.variableXref[name] = nil }
func (x *xrefs) noteElementRef(name string)  { x.elementXref[name] = nil }

// valueSymbol is a named choice point: an ordered list of alternative
// templates, some of which may be leaves (§3).
type valueSymbol struct {
	xrefs

	alternatives []string
	leaf         []string

	// leafPaths holds every (leafID, nextHop, depth) annotation computed by
	// AnalyzeLeafPaths (§4.4); empty until then.
	leafPaths []leafPath
}

type leafPath struct {
	leaf  string
	hop   string
	depth int
}

func newValueSymbol(ident string) *valueSymbol {
	return &valueSymbol{xrefs: newXrefs(ident)}
}

// addAlternative appends a template to v's alternatives, also recording it
// as a leaf alternative if it contains no +value+ reference and no
// %repeat% meta-form (§3).
func (v *valueSymbol) addAlternative(tmpl string) {
	v.alternatives = append(v.alternatives, tmpl)
	v.scanRefs(tmpl)

	if valueRefPattern.MatchString(tmpl) {
		return
	}
	if repeatMetaPattern.MatchString(tmpl) {
		return
	}

	v.leaf = append(v.leaf, tmpl)
}

// variableSymbol mints fresh "<ident><N>" element names and remembers the
// default declaration used to bootstrap itself the first time it's
// referenced via !ident! before any @ident@ has been issued (§3).
type variableSymbol struct {
	xrefs

	// defaults holds (prefix, suffix) pairs surrounding the @ident@
	// placeholder, one per "variable" assignment line.
	defaults []defaultTemplate

	counter int
	// defaultDecl is the rendered declaration synthesized on first demand;
	// empty until then, reset between artifacts.
	defaultDecl string
}

type defaultTemplate struct {
	prefix string
	suffix string
}

func newVariableSymbol(ident string) *variableSymbol {
	return &variableSymbol{xrefs: newXrefs(ident)}
}

func (v *variableSymbol) addDefault(prefix, suffix string) {
	v.defaults = append(v.defaults, defaultTemplate{prefix: prefix, suffix: suffix})
	v.scanValueRefs(prefix)
	v.scanValueRefs(suffix)
	v.scanVariableRefs(prefix)
	v.scanVariableRefs(suffix)
}

// resetForArtifact clears per-artifact state (§4.6 step 1).
func (v *variableSymbol) resetForArtifact() {
	v.counter = 0
	v.defaultDecl = ""
}

// newElement mints a brand new element name, incrementing the counter.
func (v *variableSymbol) newElement() string {
	v.counter++
	return fmt.Sprintf("%s%d", v.ident, v.counter)
}

// varianceSymbol is a top-level production sampled to build an artifact
// body.
type varianceSymbol struct {
	xrefs

	alternatives []string
}

func newVarianceSymbol(ident string) *varianceSymbol {
	return &varianceSymbol{xrefs: newXrefs(ident)}
}

func (v *varianceSymbol) addAlternative(tmpl string) {
	v.alternatives = append(v.alternatives, tmpl)
	v.scanRefs(tmpl)
}

// Grammar is the fully parsed (and, after Resolve/AnalyzeLeafPaths, fully
// linked and annotated) symbol store for one grammar file.
//
// Alongside each lookup map, Grammar keeps the identifiers in declaration
// order. Go map iteration is randomized per-process, but §8's determinism
// contract requires that the same grammar + seed always emit the same
// bytes, so anywhere iteration order feeds a random choice (which variance
// to sample, which variable's default lands where in the preamble) this
// repo walks the ordered slice instead of the map.
type Grammar struct {
	values    map[string]*valueSymbol
	variables map[string]*variableSymbol
	variances map[string]*varianceSymbol

	valueOrder    []string
	variableOrder []string
	varianceOrder []string

	constants Constants
	tabs      int
}
