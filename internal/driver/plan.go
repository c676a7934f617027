package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"debuggen/internal/debugimpl"
	"debuggen/internal/types"
)

// planSchemaVersion is bumped whenever the Plan layout changes.
const planSchemaVersion uint16 = 1

// Plan is the serializable form of a Result, consumed by downstream emitters.
type Plan struct {
	Schema  uint16       `json:"schema" msgpack:"schema"`
	Records []PlanRecord `json:"records" msgpack:"records"`
}

// PlanRecord is one rendered record.
type PlanRecord struct {
	ID       uint32    `json:"id" msgpack:"id"`
	Name     string    `json:"name" msgpack:"name"`
	Kind     string    `json:"kind" msgpack:"kind"`
	Generics []string  `json:"generics,omitempty" msgpack:"generics,omitempty"`
	Format   string    `json:"format" msgpack:"format"`
	Args     []PlanArg `json:"args" msgpack:"args"`
}

// PlanArg is one value expression.
type PlanArg struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Ident string `json:"ident" msgpack:"ident"`
}

// PlanFormat selects the plan encoding.
type PlanFormat string

const (
	PlanJSON    PlanFormat = "json"
	PlanMsgpack PlanFormat = "msgpack"
)

// ParsePlanFormat validates a --format value.
func ParsePlanFormat(s string) (PlanFormat, error) {
	switch PlanFormat(s) {
	case PlanJSON, PlanMsgpack:
		return PlanFormat(s), nil
	default:
		return "", fmt.Errorf("invalid plan format %q (expected: json|msgpack)", s)
	}
}

// NewPlan converts a result to its serializable form.
func NewPlan(res *Result) *Plan {
	p := &Plan{Schema: planSchemaVersion, Records: make([]PlanRecord, 0, len(res.Records))}
	for _, rec := range res.Records {
		args := make([]PlanArg, 0, len(rec.Procedure.Args))
		for _, a := range rec.Procedure.Args {
			args = append(args, PlanArg{Kind: a.Kind.String(), Ident: a.Ident})
		}
		p.Records = append(p.Records, PlanRecord{
			ID:       uint32(rec.ID),
			Name:     rec.Name,
			Kind:     rec.Kind.String(),
			Generics: rec.Generics,
			Format:   rec.Procedure.Format,
			Args:     args,
		})
	}
	return p
}

// Result converts the plan back. Unknown kinds are errors.
func (p *Plan) Result() (*Result, error) {
	if p.Schema != planSchemaVersion {
		return nil, fmt.Errorf("plan schema %d is not supported (want %d)", p.Schema, planSchemaVersion)
	}
	res := &Result{Records: make([]Record, 0, len(p.Records))}
	for _, pr := range p.Records {
		var kind types.CompKind
		switch pr.Kind {
		case types.CompStruct.String():
			kind = types.CompStruct
		case types.CompUnion.String():
			kind = types.CompUnion
		default:
			return nil, fmt.Errorf("record %s: unknown kind %q", pr.Name, pr.Kind)
		}
		var args []debugimpl.Expr
		for _, a := range pr.Args {
			ek, err := debugimpl.ParseExprKind(a.Kind)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", pr.Name, err)
			}
			args = append(args, debugimpl.Expr{Kind: ek, Ident: a.Ident})
		}
		res.Records = append(res.Records, Record{
			ID:       types.TypeID(pr.ID),
			Name:     pr.Name,
			Kind:     kind,
			Generics: pr.Generics,
			Procedure: debugimpl.Procedure{
				Name:   pr.Name,
				Format: pr.Format,
				Args:   args,
			},
		})
	}
	return res, nil
}

// EncodePlan writes p to w in the given format.
func EncodePlan(w io.Writer, p *Plan, format PlanFormat) error {
	switch format {
	case PlanJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case PlanMsgpack:
		return msgpack.NewEncoder(w).Encode(p)
	default:
		return fmt.Errorf("invalid plan format %q", format)
	}
}

// DecodePlan reads a plan from r.
func DecodePlan(r io.Reader, format PlanFormat) (*Plan, error) {
	var p Plan
	var err error
	switch format {
	case PlanJSON:
		err = json.NewDecoder(r).Decode(&p)
	case PlanMsgpack:
		err = msgpack.NewDecoder(r).Decode(&p)
	default:
		return nil, fmt.Errorf("invalid plan format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &p, nil
}
