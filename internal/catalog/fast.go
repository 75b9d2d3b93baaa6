package catalog

// FAST: test-dominant 10/40/50 with the admission test out of 100.
// Secondary campuses close lower, modelled as a positive shift.
func init() {
	fixed := func(variant, label string) Profile {
		return Profile{
			Institution: "fast",
			Variant:     variant,
			Label:       label,
			Components: []Component{
				secondary(10),
				higherSecondary(40, 0),
				entranceTest("Admission test", 50, 100),
			},
			Primary:  RoleSecondary,
			SolveFor: RoleEntranceTest,
		}
	}

	register(Family{
		Code: "fast",
		Name: "FAST National University",
		Profiles: []Profile{
			fixed("computing", "Computing"),
			fixed("engineering", "Electrical Engineering"),
			fixed("business", "Management Sciences"),
		},
		Breakpoints: []Breakpoint{
			{UpTo: 55, Tier: "Reach for a higher score"},
			{UpTo: 65, Tier: "Solid chance in secondary fields"},
			{UpTo: 75, Tier: "Competitive for flagship programs"},
		},
		TopTier: "Outstanding: broad eligibility",
		Campuses: []Campus{
			{Code: "islamabad", Name: "Islamabad", Adjustment: 0},
			{Code: "lahore", Name: "Lahore", Adjustment: 0},
			{Code: "karachi", Name: "Karachi", Adjustment: 2},
			{Code: "peshawar", Name: "Peshawar", Adjustment: 4},
			{Code: "chiniot-faisalabad", Name: "Chiniot-Faisalabad", Adjustment: 5},
		},
	})
}
