package grammar

import "regexp"

// Reference tokens recognized inside any template (§6). All three use the
// broad identifier class [a-zA-Z0-9_].
var (
	valueRefPattern    = regexp.MustCompile(`\+([a-zA-Z0-9_]+)\+`)
	variableRefPattern = regexp.MustCompile(`!([a-zA-Z0-9_]+)!`)
	elementRefPattern  = regexp.MustCompile(`@([a-zA-Z0-9_]+)@`)

	repeatMetaPattern = regexp.MustCompile(`%repeat%\(`)
)

// scanRefs records every +x+, !x! and @x@ occurrence in tmpl into x's xref
// sets (§4.1, last paragraph). It is called once per template line as it is
// added to a block, scanning with regexp.FindAllStringSubmatch rather than
// a recursive search-and-advance.
func (x *xrefs) scanRefs(tmpl string) {
	x.scanValueRefs(tmpl)
	x.scanVariableRefs(tmpl)
	x.scanElementRefs(tmpl)
}

func (x *xrefs) scanValueRefs(tmpl string) {
	for _, m := range valueRefPattern.FindAllStringSubmatch(tmpl, -1) {
		x.noteValueRef(m[1])
	}
}

func (x *xrefs) scanVariableRefs(tmpl string) {
	for _, m := range variableRefPattern.FindAllStringSubmatch(tmpl, -1) {
		x.noteVariableRef(m[1])
	}
}

func (x *xrefs) scanElementRefs(tmpl string) {
	for _, m := range elementRefPattern.FindAllStringSubmatch(tmpl, -1) {
		x.noteElementRef(m[1])
	}
}

// countValueRefs returns the number of +x+ occurrences in tmpl, used by the
// leaf-forced selection heuristic (§4.5).
func countValueRefs(tmpl string) int {
	return len(valueRefPattern.FindAllStringIndex(tmpl, -1))
}
