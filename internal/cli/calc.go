package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
	"github.com/Hammad-111/HamSync-sub000/internal/client"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
)

// calcFlags are shared by calc and target.
type calcFlags struct {
	institution string
	variant     string
	marks       map[catalog.Role]*string
	awaited     bool
	campus      string
	save        bool
}

func (f *calcFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.institution, "institution", "i", "", "Institution: nust, uet or fast")
	fl.StringVarP(&f.variant, "variant", "v", "", "Program variant (see meritcalc profiles)")
	f.marks = map[catalog.Role]*string{
		catalog.RoleSecondary:       fl.String("ssc", "", "Matric / O-level marks, obtained/total"),
		catalog.RoleHigherSecondary: fl.String("hssc", "", "Intermediate / A-level marks, obtained/total"),
		catalog.RoleEntranceTest:    fl.String("test", "", "Entrance test score, obtained[/total]"),
		catalog.RoleAptitude:        fl.String("aptitude", "", "Architecture drawing test, obtained[/total]"),
	}
	fl.BoolVar(&f.awaited, "awaited", false, "HSSC result awaited: only first-year marks entered")
	fl.StringVar(&f.campus, "campus", "", "Campus for the advisory tier (FAST only)")
	fl.BoolVar(&f.save, "save", false, "Save the calculation on the server")
	_ = cmd.MarkFlagRequired("institution")
	_ = cmd.MarkFlagRequired("variant")
}

func (f *calcFlags) request(mode aggregate.Mode) aggregate.Request {
	req := aggregate.Request{
		Institution: f.institution,
		Variant:     f.variant,
		Mode:        mode,
		Inputs:      map[catalog.Role]aggregate.Input{},
		Awaited:     f.awaited,
		Campus:      f.campus,
	}
	for role, s := range f.marks {
		if *s == "" {
			continue
		}
		req.Inputs[role] = aggregate.ParseInput(*s)
	}
	return req
}

func newCalcCmd(v *viper.Viper) *cobra.Command {
	f := &calcFlags{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the aggregate from your marks",
		Example: `  meritcalc calc -i fast -v computing --ssc 890/1000 --hssc 850/1000 --test 78
  meritcalc calc -i nust -v engineering --ssc 1000/1100 --hssc 480/550 --awaited --test 150 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, f, f.request(aggregate.ModeForward))
		},
	}
	f.register(cmd)
	return cmd
}

func newTargetCmd(v *viper.Viper) *cobra.Command {
	f := &calcFlags{}
	var target float64
	var solveFor string
	cmd := &cobra.Command{
		Use:     "target",
		Short:   "Find the entrance-test score a target aggregate needs",
		Example: `  meritcalc target -i uet -v engineering --ssc 950/1100 --hssc 900/1100 --target 85`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.request(aggregate.ModeTarget)
			if cmd.Flags().Changed("target") {
				req.Target = &target
			}
			req.SolveFor = catalog.Role(solveFor)
			return run(cmd, v, f, req)
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "Target aggregate (0-100)")
	cmd.Flags().StringVar(&solveFor, "solve-for", "", "Role to solve for (default: the profile's test role)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, f *calcFlags, req aggregate.Request) error {
	res, err := merit.New().Calculate(req)
	if err != nil {
		return err
	}
	if err := renderResult(cmd.OutOrStdout(), v.GetString("output"), res); err != nil {
		return err
	}
	if !f.save {
		return nil
	}
	sv, err := client.New(v.GetString("server"), v.GetString("token")).Save(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved as %s\n", sv.ID)
	return nil
}
