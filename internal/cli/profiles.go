package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
)

func newProfilesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [institution]",
		Short: "List formula profiles and their weights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fams := catalog.Families()
			if len(args) == 1 {
				f, ok := catalog.Lookup(args[0])
				if !ok {
					return fmt.Errorf("%w: institution %q", catalog.ErrUnknownProfile, args[0])
				}
				fams = []catalog.Family{f}
			}

			w := cmd.OutOrStdout()
			if v.GetString("output") == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(fams)
			}

			table := tablewriter.NewWriter(w)
			table.Header([]string{"Institution", "Variant", "Formula", "Merit list"})
			var data [][]string
			for _, f := range fams {
				for _, p := range f.Profiles {
					data = append(data, []string{f.Code, p.Variant, formula(p), p.MeritList})
				}
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

// formula renders weights compactly: "SSC 10 + HSSC 15 + NET 75 (/200)".
func formula(p catalog.Profile) string {
	parts := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		s := fmt.Sprintf("%s %g", shortLabel(c), c.Weight)
		if c.Scale > 0 {
			s += fmt.Sprintf(" (/%g)", c.Scale)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " + ")
}

func shortLabel(c catalog.Component) string {
	switch c.Role {
	case catalog.RoleSecondary:
		return "SSC"
	case catalog.RoleHigherSecondary:
		return "HSSC"
	}
	return c.Label
}
