package simtrees

// ZHAireSExtra holds the ZHAireS-specific auxiliary parameters of one
// event. The simulator reports these as free text, so the cut fields
// stay string-encoded. Stored as one row of the "teventshowerzhaires"
// tree.
//
// What used to be a single free-form "other_parameters" blob is kept
// as a declared key/value list instead: param_key and param_value are
// parallel string vectors, position i holding one parameter.
type ZHAireSExtra struct {
	recordBase

	// Relative thinning energy as reported by the simulator
	RelativeThining StringScalar
	// Weight factor
	WeightFactor Scalar[float64]
	// Low energy cuts as reported by the simulator (value plus unit)
	GammaEnergyCut    StringScalar
	ElectronEnergyCut StringScalar
	MuonEnergyCut     StringScalar
	MesonEnergyCut    StringScalar
	NucleonEnergyCut  StringScalar
	// Remaining simulator parameters as key/value pairs
	ParamKey   StringVector
	ParamValue StringVector
}

// NewZHAireSExtra returns an empty record with every column
// default-initialized.
func NewZHAireSExtra() *ZHAireSExtra {
	r := &ZHAireSExtra{}
	r.recordBase = recordBase{
		treeType: "eventshowerzhaires",
		treeName: "teventshowerzhaires",
		fields: fieldTable{
			"relative_thining":    bindString("relative_thining", &r.RelativeThining),
			"weight_factor":       bindScalar("weight_factor", &r.WeightFactor),
			"gamma_energy_cut":    bindString("gamma_energy_cut", &r.GammaEnergyCut),
			"electron_energy_cut": bindString("electron_energy_cut", &r.ElectronEnergyCut),
			"muon_energy_cut":     bindString("muon_energy_cut", &r.MuonEnergyCut),
			"meson_energy_cut":    bindString("meson_energy_cut", &r.MesonEnergyCut),
			"nucleon_energy_cut":  bindString("nucleon_energy_cut", &r.NucleonEnergyCut),
			"param_key":           bindStringVector("param_key", &r.ParamKey),
			"param_value":         bindStringVector("param_value", &r.ParamValue),
		},
	}
	return r
}

// SetParameters replaces the key/value parameter columns. The two
// slices are parallel and have to be the same length.
func (r *ZHAireSExtra) SetParameters(keys, values []string) error {
	if len(keys) != len(values) {
		return &ErrLengthMismatch{Field: "param_value", Want: len(keys), Got: len(values)}
	}
	r.ParamKey.Set(keys)
	r.ParamValue.Set(values)
	return nil
}

// Parameters returns the key/value parameters as a map. Later
// duplicates of a key win.
func (r *ZHAireSExtra) Parameters() map[string]string {
	out := make(map[string]string, r.ParamKey.Len())
	for i := 0; i < r.ParamKey.Len() && i < r.ParamValue.Len(); i++ {
		out[r.ParamKey.At(i)] = r.ParamValue.At(i)
	}
	return out
}

// Validate checks that the parameter key and value columns stay
// parallel.
func (r *ZHAireSExtra) Validate() error {
	if r.ParamKey.Len() != r.ParamValue.Len() {
		return &ErrLengthMismatch{Field: "param_value", Want: r.ParamKey.Len(), Got: r.ParamValue.Len()}
	}
	return nil
}
