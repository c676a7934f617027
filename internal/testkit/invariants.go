package testkit

import (
	"fmt"
	"strings"

	"debuggen/internal/debugimpl"
)

// CheckProcedureInvariants runs the structural invariants on a rendered procedure:
// 1) the format string is well formed and its placeholder count equals len(Args)
// 2) the body is wrapped as "<Name> {{ ... }}"
// 3) no separator is doubled, leading or trailing (omitted fields leave no trace)
// 4) every argument carries a known kind and a non-empty identifier
func CheckProcedureInvariants(p debugimpl.Procedure) error {
	// 1) placeholder/value parity
	n, err := debugimpl.CountPlaceholders(p.Format)
	if err != nil {
		return fmt.Errorf("%s: malformed format %q: %w", p.Name, p.Format, err)
	}
	if n != len(p.Args) {
		return fmt.Errorf("%s: %d placeholders but %d values in %q", p.Name, n, len(p.Args), p.Format)
	}

	// 2) framing
	const open, closing = " {{ ", " }}"
	idx := strings.Index(p.Format, open)
	if idx < 0 || !strings.HasSuffix(p.Format, closing) {
		return fmt.Errorf("%s: format %q is not framed by %q ... %q", p.Name, p.Format, open, closing)
	}
	body := p.Format[idx+len(open) : len(p.Format)-len(closing)]

	// 3) separators
	if strings.HasPrefix(body, ", ") || strings.HasSuffix(body, ", ") || strings.Contains(body, ", , ") {
		return fmt.Errorf("%s: stray separator in %q", p.Name, body)
	}

	// 4) arguments
	for i, a := range p.Args {
		if a.Kind == debugimpl.ExprInvalid {
			return fmt.Errorf("%s: argument %d has invalid kind", p.Name, i)
		}
		if a.Ident == "" {
			return fmt.Errorf("%s: argument %d has empty identifier", p.Name, i)
		}
	}
	return nil
}

// CheckFragment verifies placeholder/value parity for a single fragment.
func CheckFragment(f debugimpl.Fragment) error {
	n, err := debugimpl.CountPlaceholders(f.Format)
	if err != nil {
		return fmt.Errorf("malformed fragment %q: %w", f.Format, err)
	}
	if n != len(f.Args) {
		return fmt.Errorf("fragment %q has %d placeholders but %d values", f.Format, n, len(f.Args))
	}
	return nil
}
