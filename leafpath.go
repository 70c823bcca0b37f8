package grammar

// AnalyzeLeafPaths precomputes, for every value symbol, which of its
// direct +value+ references progress toward some leaf alternative (§4.4).
// It must run once, after Resolve and before the first Emit call. Values
// with a leaf alternative of their own carry no annotation and need none;
// if a value reachable from a variance has neither a leaf alternative nor
// an annotated hop for the value refs of its candidate alternatives,
// leaf-forced expansion through it is impossible and Emit reports that the
// first time generation would need to force a leaf there (§3 invariant).
func (g *Grammar) AnalyzeLeafPaths() {
	reverse := g.reverseValueRefs()

	for _, ident := range g.valueOrder {
		leafObj := g.values[ident]
		if len(leafObj.leaf) == 0 {
			continue
		}
		g.seedLeaf(leafObj, reverse)
	}
}

// reverseValueRefs inverts the value-reference graph: reverse[x] lists the
// identifiers of every value whose alternatives reference x.
func (g *Grammar) reverseValueRefs() map[string][]string {
	reverse := map[string][]string{}

	for _, ident := range g.valueOrder {
		v := g.values[ident]
		for ref := range v.valueXref {
			reverse[ref] = append(reverse[ref], ident)
		}
	}

	return reverse
}

// seedLeaf walks backward from leafObj, annotating every predecessor that
// can reach it. The first hop out of leafObj's direct predecessors is
// recorded at depth 0 with hop == leafObj's own identifier (§4.4 step 3).
func (g *Grammar) seedLeaf(leafObj *valueSymbol, reverse map[string][]string) {
	for _, predIdent := range reverse[leafObj.ident] {
		pred := g.values[predIdent]
		pred.leafPaths = append(pred.leafPaths, leafPath{
			leaf:  leafObj.ident,
			hop:   leafObj.ident,
			depth: 0,
		})

		seen := map[*valueSymbol]bool{pred: true}
		g.propagateLeaf(leafObj.ident, pred, reverse, seen, 1)
	}
}

// propagateLeaf continues the backward walk from obj, tracking visited
// nodes in seen so a single traversal never loops forever on a cyclic
// reference graph. The seen-set is per-traversal, not a global cache:
// a value revisited on a later, unrelated traversal gets annotated again.
func (g *Grammar) propagateLeaf(leaf string, obj *valueSymbol, reverse map[string][]string, seen map[*valueSymbol]bool, depth int) {
	for _, predIdent := range reverse[obj.ident] {
		pred := g.values[predIdent]
		pred.leafPaths = append(pred.leafPaths, leafPath{
			leaf:  leaf,
			hop:   obj.ident,
			depth: depth,
		})

		if seen[pred] {
			continue
		}
		seen[pred] = true
		g.propagateLeaf(leaf, pred, reverse, seen, depth+1)
	}
}
