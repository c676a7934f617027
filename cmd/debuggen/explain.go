package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"debuggen/internal/debugimpl"
	"debuggen/internal/types"
)

var explainCmd = &cobra.Command{
	Use:   "explain [input.toml] <record>",
	Short: "Show which rule decides how each field of a record is printed",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().Bool("escape-keywords", false, "escape Rust keywords in field accessors (r#type)")
}

var (
	ruleOmitted = color.New(color.FgRed)
	ruleDirect  = color.New(color.FgGreen)
	ruleLiteral = color.New(color.FgYellow)
	headerStyle = color.New(color.Bold)
)

type explainRow struct {
	field  string
	rule   string
	output string
	via    string
	style  *color.Color
}

func runExplain(cmd *cobra.Command, args []string) error {
	record := args[len(args)-1]
	if _, err := setupColor(cmd); err != nil {
		return err
	}
	r, done, err := startRun(cmd, args[:len(args)-1], "explain")
	if err != nil {
		return err
	}
	defer done()

	g, err := r.loadGraph()
	if err != nil {
		return err
	}
	id, ok := g.ByName(record)
	if !ok {
		return fmt.Errorf("no type named %q", record)
	}
	info, ok := g.CompInfo(id)
	if !ok {
		return fmt.Errorf("%s is a %s, not a struct or union", record, g.Kind(id))
	}

	ctx := debugimpl.NewContext(g, r.settings.idents())
	out := cmd.OutOrStdout()
	flags := []string{info.Kind.String()}
	if !g.IsWhitelisted(id) {
		flags = append(flags, "not whitelisted")
	}
	if g.IsOpaque(id) {
		flags = append(flags, "opaque")
	}
	fmt.Fprintf(out, "%s (%s)\n", headerStyle.Sprint(g.Name(id)), strings.Join(flags, ", "))

	rows := explainRows(ctx, info.Fields)
	writeExplainTable(out, rows)

	proc := debugimpl.RenderRecord(ctx, id, info.Fields, info.Kind)
	fmt.Fprintf(out, "\nformat: %s\n", proc.Format)
	return nil
}

func explainRows(ctx *debugimpl.Context, fields []types.Field) []explainRow {
	g := ctx.Graph()
	var rows []explainRow
	for _, f := range fields {
		switch f := f.(type) {
		case types.DataMember:
			if f.Name == "" {
				rows = append(rows, explainRow{field: "<anonymous>", rule: "anonymous", output: "-", style: ruleOmitted})
				continue
			}
			d := debugimpl.Explain(ctx, f.Type, f.Name)
			row := explainRow{field: f.Name, rule: d.Rule.String(), output: "-", via: viaLabel(g, d)}
			switch {
			case !d.OK:
				row.style = ruleOmitted
			case d.Rule == debugimpl.RuleDirect || d.Rule == debugimpl.RuleSmallArray || d.Rule == debugimpl.RulePointer:
				row.style = ruleDirect
			default:
				row.style = ruleLiteral
			}
			if d.OK {
				row.output = d.Fragment.Format
			}
			rows = append(rows, row)
		case types.BitfieldUnit:
			for _, bf := range f.Bitfields {
				if bf.Name == "" {
					rows = append(rows, explainRow{field: fmt.Sprintf("<padding:%d>", bf.Width), rule: "padding", output: "-", style: ruleOmitted})
					continue
				}
				rows = append(rows, explainRow{field: bf.Name, rule: "bitfield", output: bf.Name + " : {:?}", style: ruleDirect})
			}
		}
	}
	return rows
}

func viaLabel(g *types.Graph, d debugimpl.Decision) string {
	if len(d.Via) == 0 {
		return types.Label(g, d.Target)
	}
	parts := make([]string, 0, len(d.Via)+1)
	for _, id := range d.Via {
		parts = append(parts, types.Label(g, id))
	}
	parts = append(parts, types.Label(g, d.Target))
	return strings.Join(parts, " -> ")
}

func writeExplainTable(out io.Writer, rows []explainRow) {
	header := explainRow{field: "FIELD", rule: "RULE", output: "OUTPUT", via: "TYPE"}
	wField, wRule, wOutput := runewidth.StringWidth(header.field), runewidth.StringWidth(header.rule), runewidth.StringWidth(header.output)
	for _, row := range rows {
		wField = max(wField, runewidth.StringWidth(row.field))
		wRule = max(wRule, runewidth.StringWidth(row.rule))
		wOutput = max(wOutput, runewidth.StringWidth(row.output))
	}
	line := func(row explainRow, style *color.Color) {
		rule := runewidth.FillRight(row.rule, wRule)
		if style != nil {
			rule = style.Sprint(rule)
		}
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			runewidth.FillRight(row.field, wField),
			rule,
			runewidth.FillRight(row.output, wOutput),
			row.via)
	}
	line(header, headerStyle)
	for _, row := range rows {
		line(row, row.style)
	}
}
