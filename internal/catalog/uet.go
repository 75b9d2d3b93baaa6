package catalog

// UET: one 25/45/30 formula with ECAT out of 400. Variants only pick the
// merit list that is consulted downstream.
func init() {
	fixed := func(variant, label, list string) Profile {
		return Profile{
			Institution: "uet",
			Variant:     variant,
			Label:       label,
			MeritList:   list,
			Components: []Component{
				secondary(25),
				higherSecondary(45, 0.5),
				entranceTest("ECAT", 30, 400),
			},
			Primary:  RoleSecondary,
			SolveFor: RoleEntranceTest,
		}
	}

	register(Family{
		Code: "uet",
		Name: "University of Engineering and Technology",
		Profiles: []Profile{
			fixed("engineering", "Engineering", "open merit"),
			fixed("technology", "Engineering Technology", "technology merit"),
			fixed("self-finance", "Engineering (self-finance)", "self-finance merit"),
		},
		Breakpoints: []Breakpoint{
			{UpTo: 65, Tier: "Reach for a higher score: outside recent open-merit closings"},
			{UpTo: 75, Tier: "Solid chance in secondary disciplines"},
		},
		TopTier: "Competitive for flagship disciplines",
	})
}
