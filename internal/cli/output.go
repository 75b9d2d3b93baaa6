package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	blockedColor = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
)

func renderResult(w io.Writer, format string, res merit.Result) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "", "text":
		return renderText(w, res)
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

func renderText(w io.Writer, res merit.Result) error {
	fmt.Fprintf(w, "%s / %s (%s)\n", strings.ToUpper(res.Institution), res.Variant, res.Mode)

	if res.Status == aggregate.StatusNoResult {
		msg := "No result: SSC / Matric marks are required."
		if res.Mode == aggregate.ModeTarget && res.TargetAggregate == nil {
			msg = "No result: enter SSC / Matric marks and a target aggregate."
		}
		fmt.Fprintln(w, mutedColor.Sprint(msg))
		return nil
	}

	if err := renderTerms(w, res); err != nil {
		return err
	}

	switch res.Mode {
	case aggregate.ModeForward:
		fmt.Fprintf(w, "Aggregate: %s\n", okColor.Sprintf("%.2f", *res.Aggregate))
	case aggregate.ModeTarget:
		req := fmt.Sprintf("%.1f / %g", *res.RequiredScore, res.MaxScore)
		switch res.Status {
		case aggregate.StatusUnreachable:
			req = blockedColor.Sprint(req)
		case aggregate.StatusAchieved:
			req = okColor.Sprint(req)
		default:
			req = warnColor.Sprint(req)
		}
		fmt.Fprintf(w, "Required score for %.2f: %s\n", *res.TargetAggregate, req)
	}
	if res.Tier != "" {
		tier := res.Tier
		if res.Campus != "" {
			tier += " [" + res.Campus + "]"
		}
		fmt.Fprintf(w, "Tier: %s\n", tier)
	}
	if res.Advice != "" {
		fmt.Fprintln(w, res.Advice)
	}
	for _, wn := range res.Warnings {
		fmt.Fprintln(w, warnColor.Sprint("! "+wn.Message))
	}
	return nil
}

func renderTerms(w io.Writer, res merit.Result) error {
	labels := map[catalog.Role]string{}
	if p, err := catalog.Resolve(res.Institution, res.Variant); err == nil {
		for _, c := range p.Components {
			labels[c.Role] = c.Label
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Component", "Weight", "Ratio", "Points"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, t := range res.Components {
		label := labels[t.Role]
		if label == "" {
			label = string(t.Role)
		}
		ratio := strconv.FormatFloat(t.Ratio*100, 'f', 1, 64) + "%"
		points := strconv.FormatFloat(t.Contribution, 'f', 2, 64)
		switch {
		case t.Excluded:
			ratio, points = mutedColor.Sprint("-"), mutedColor.Sprint("0.00")
		case t.Solved:
			ratio = "solve"
		}
		data = append(data, []string{label, strconv.FormatFloat(t.Weight, 'f', -1, 64), ratio, points})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
