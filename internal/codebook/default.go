package codebook

import "censuscli/internal/dataset"

// Default returns the compiled-in canonical codebook for the 15-column
// adult census extract. Loading an external YAML codebook overrides it
// wholesale; there is no per-field merging.
//
// The source material disagreed with itself in two places, recorded here as
// data-design defects rather than resolved by guesswork: one variant
// collapsed married-spouse-absent into the married bucket (this table keeps
// it with divorced or separated, leaving married strictly spouse-present),
// and one variant carried a loc-gov key typo that silently failed to
// collapse local-gov under the pass-through policy.
func Default() *Codebook {
	return &Codebook{
		Version:  DefaultVersion,
		Sentinel: "?",

		Columns: []ColumnSpec{
			{Name: "age", Kind: dataset.KindNumeric},
			{Name: "workclass", Kind: dataset.KindCategorical},
			{Name: "fnlwgt", Kind: dataset.KindNumeric},
			{Name: "education", Kind: dataset.KindCategorical},
			{Name: "education_num", Kind: dataset.KindNumeric},
			{Name: "marital_status", Kind: dataset.KindCategorical},
			{Name: "occupation", Kind: dataset.KindCategorical},
			{Name: "relationship", Kind: dataset.KindCategorical},
			{Name: "race", Kind: dataset.KindCategorical},
			{Name: "sex", Kind: dataset.KindCategorical},
			{Name: "capital_gain", Kind: dataset.KindNumeric},
			{Name: "capital_loss", Kind: dataset.KindNumeric},
			{Name: "hours_per_week", Kind: dataset.KindNumeric},
			{Name: "native_country", Kind: dataset.KindCategorical},
			{Name: "income", Kind: dataset.KindCategorical},
		},

		Defaults: map[string]string{
			"workclass":      "unknown",
			"occupation":     "unknown",
			"native_country": "other",
		},

		Collapses: []CollapseSpec{
			{
				Column: "workclass",
				Map: map[string]string{
					"state-gov":        "government",
					"federal-gov":      "government",
					"local-gov":        "government",
					"self-emp-not-inc": "self-employed",
					"self-emp-inc":     "self-employed",
					"without-pay":      "other",
					"never-worked":     "other",
				},
			},
			{
				Column: "marital_status",
				Map: map[string]string{
					"married-civ-spouse":    "married",
					"married-af-spouse":     "married",
					"married-spouse-absent": "divorced or separated",
					"divorced":              "divorced or separated",
					"separated":             "divorced or separated",
					"never-married":         "never married",
					"widowed":               "widowed",
				},
			},
			{
				Column: "relationship",
				Map: map[string]string{
					"husband":        "spouse",
					"wife":           "spouse",
					"own-child":      "child",
					"other-relative": "other",
				},
			},
			{
				Column: "race",
				Map: map[string]string{
					"amer-indian-eskimo": "amer-indian",
					"asian-pac-islander": "asian",
				},
			},
		},

		Derives: []DeriveSpec{
			{
				Source: "education",
				Target: "education_level",
				Map: map[string]string{
					"preschool":    "primary",
					"1st-4th":      "primary",
					"5th-6th":      "primary",
					"7th-8th":      "primary",
					"9th":          "secondary",
					"10th":         "secondary",
					"11th":         "secondary",
					"12th":         "secondary",
					"hs-grad":      "secondary",
					"some-college": "post-secondary",
					"assoc-voc":    "post-secondary",
					"assoc-acdm":   "post-secondary",
					"bachelors":    "tertiary",
					"masters":      "tertiary",
					"doctorate":    "tertiary",
					"prof-school":  "tertiary",
				},
			},
			{
				// The resolver default "unknown" is deliberately absent:
				// records with unresolved occupation get a null group.
				Source: "occupation",
				Target: "occupation_grouped",
				Map: map[string]string{
					"exec-managerial":   "white-collar",
					"prof-specialty":    "white-collar",
					"adm-clerical":      "white-collar",
					"sales":             "white-collar",
					"tech-support":      "white-collar",
					"craft-repair":      "blue-collar",
					"machine-op-inspct": "blue-collar",
					"handlers-cleaners": "blue-collar",
					"transport-moving":  "blue-collar",
					"farming-fishing":   "blue-collar",
					"other-service":     "service",
					"priv-house-serv":   "service",
					"protective-serv":   "service",
					"armed-forces":      "military",
				},
			},
			{
				// "south" is an unresolvable source token and "other" is
				// the resolver default; both map to a null region.
				Source: "native_country",
				Target: "native_region",
				Map: map[string]string{
					"united-states":              "north-america",
					"canada":                     "north-america",
					"outlying-us(guam-usvi-etc)": "north-america",
					"puerto-rico":                "north-america",
					"mexico":                     "latin-america",
					"cuba":                       "latin-america",
					"jamaica":                    "latin-america",
					"haiti":                      "latin-america",
					"dominican-republic":         "latin-america",
					"honduras":                   "latin-america",
					"guatemala":                  "latin-america",
					"nicaragua":                  "latin-america",
					"el-salvador":                "latin-america",
					"ecuador":                    "latin-america",
					"peru":                       "latin-america",
					"columbia":                   "latin-america",
					"trinadad&tobago":            "latin-america",
					"cambodia":                   "asia",
					"india":                      "asia",
					"japan":                      "asia",
					"china":                      "asia",
					"iran":                       "asia",
					"philippines":                "asia",
					"vietnam":                    "asia",
					"laos":                       "asia",
					"taiwan":                     "asia",
					"thailand":                   "asia",
					"hong":                       "asia",
					"england":                    "europe",
					"germany":                    "europe",
					"greece":                     "europe",
					"italy":                      "europe",
					"poland":                     "europe",
					"portugal":                   "europe",
					"ireland":                    "europe",
					"france":                     "europe",
					"hungary":                    "europe",
					"scotland":                   "europe",
					"yugoslavia":                 "europe",
					"holand-netherlands":         "europe",
				},
			},
		},

		Bins: []BinSpec{
			{
				Source:     "age",
				Target:     "age_group",
				Boundaries: []float64{0, 18, 25, 35, 45, 60, 75, 100},
				Labels:     []string{"<18", "18-25", "26-35", "36-45", "46-60", "61-75", "76+"},
			},
		},

		Drop: []string{"education", "native_country", "occupation"},
	}
}
