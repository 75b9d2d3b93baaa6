package catalog

// NUST: 10/15/75 for most programs, a SAT route for international applicants,
// and a four-part formula for architecture that adds the drawing test.
func init() {
	standard := func(variant, label string) Profile {
		return Profile{
			Institution: "nust",
			Variant:     variant,
			Label:       label,
			Components: []Component{
				secondary(10),
				higherSecondary(15, 0.5),
				entranceTest("NET", 75, 200),
			},
			Primary:  RoleSecondary,
			SolveFor: RoleEntranceTest,
		}
	}

	register(Family{
		Code: "nust",
		Name: "National University of Sciences and Technology",
		Profiles: []Profile{
			standard("engineering", "Engineering"),
			standard("computing", "Computing"),
			standard("business", "Business Studies"),
			standard("applied-sciences", "Applied Sciences"),
			{
				Institution: "nust",
				Variant:     "international",
				Label:       "International (SAT)",
				Components: []Component{
					secondary(25),
					entranceTest("SAT", 75, 1600),
				},
				Primary:  RoleSecondary,
				SolveFor: RoleEntranceTest,
			},
			{
				Institution: "nust",
				Variant:     "architecture",
				Label:       "Architecture",
				Components: []Component{
					secondary(10),
					higherSecondary(15, 0.5),
					entranceTest("NET", 25, 200),
					{Role: RoleAptitude, Label: "Drawing test", Weight: 50, Scale: 100},
				},
				Primary:  RoleSecondary,
				SolveFor: RoleEntranceTest,
			},
		},
		Breakpoints: []Breakpoint{
			{UpTo: 60, Tier: "Reach for a higher score: below recent closing merit for most programs"},
			{UpTo: 70, Tier: "Solid chance in secondary fields and newer schools"},
			{UpTo: 80, Tier: "Competitive for flagship programs"},
		},
		TopTier: "Outstanding: broad eligibility across programs",
	})
}
