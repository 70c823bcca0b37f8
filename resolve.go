package grammar

import "fmt"

// Resolve links every reference name recorded during parsing to its target
// symbol, failing on any dangling reference (§ cross-reference resolver,
// §7). It must run once, after Parse and before the first AnalyzeLeafPaths
// / Emit call.
func (g *Grammar) Resolve() error {
	for _, v := range g.values {
		if err := g.resolveXrefs(&v.xrefs); err != nil {
			return err
		}
	}
	for _, v := range g.variables {
		if err := g.resolveXrefs(&v.xrefs); err != nil {
			return err
		}
	}
	for _, v := range g.variances {
		if err := g.resolveXrefs(&v.xrefs); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) resolveXrefs(x *xrefs) error {
	for name := range x.valueXref {
		target, ok := g.values[name]
		if !ok {
			return fmt.Errorf("undefined value reference from %s to %s", x.ident, name)
		}
		x.valueXref[name] = target
	}

	for name := range x.variableXref {
		target, ok := g.variables[name]
		if !ok {
			return fmt.Errorf("undefined variable reference from %s to %s", x.ident, name)
		}
		x.variableXref[name] = target
	}

	for name := range x.elementXref {
		target, ok := g.variables[name]
		if !ok {
			return fmt.Errorf("element reference without a matching variable from %s to %s", x.ident, name)
		}
		x.elementXref[name] = target
	}

	return nil
}
