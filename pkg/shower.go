package simtrees

// ShowerRecord holds the shower simulation-only data of one event.
// Stored as one row of the "trawshower" tree.
type ShowerRecord struct {
	recordBase

	// Name and version of the shower simulator
	ShowerSim StringScalar
	// Event name (the task name, useful to track the original simulation)
	EventName StringScalar
	// Event date, used to pick the atmosphere and the magnetic field
	EventDate StringScalar
	// Unix time of the event
	UnixDate Scalar[uint32]
	// Random seed
	RndSeed Scalar[float64]
	// Energy in neutrinos generated in the shower (GeV)
	EnergyInNeutrinos Scalar[float32]
	// Primary energy (GeV), one entry per primary
	EnergyPrimary VarVector[float32]
	// Shower azimuth (deg, CR convention)
	Azimuth Scalar[float32]
	// Shower zenith (deg, CR convention)
	Zenith Scalar[float32]
	// Primary particle type, one entry per primary
	PrimaryType StringVector
	// Primary injection point [m] in shower coordinates, one triple per primary
	PrimInjPointShc VarVector2D[float32]
	// Primary injection altitude [m] in shower coordinates
	PrimInjAltShc VarVector[float32]
	// Primary injection direction in shower coordinates
	PrimInjDirShc VarVector2D[float32]
	// Atmospheric model name
	AtmosModel StringScalar
	// Atmospheric model parameters
	AtmosModelParam FixedVector[float32]
	// Atmosphere tables versus altitude [m]
	AtmosAltitude VarVector2D[float32]
	// Air density [g/cm3] for each altitude of the atmos_altitude table
	AtmosDensity VarVector2D[float32]
	// Vertical depth [g/cm2] for each altitude of the atmos_altitude table
	AtmosDepth VarVector2D[float32]
	// Magnetic field: inclination, declination, modulus, in shower coordinates
	MagneticField FixedVector[float32]
	// Shower Xmax depth (g/cm2 along the shower axis)
	XmaxGrams Scalar[float32]
	// Shower Xmax position in shower coordinates [m]
	XmaxPosShc FixedVector[float64]
	// Distance of Xmax to the ground [m]
	XmaxDistance Scalar[float64]
	// Altitude of Xmax [m]
	XmaxAlt Scalar[float64]
	// High energy hadronic model (and version) used
	HadronicModel StringScalar
	// Low energy model (and version) used
	LowEnergyModel StringScalar
	// Time it took to simulate the cascade (s)
	CPUTime Scalar[float32]
	// Thinning energy, relative to primary energy
	RelativeThinning Scalar[float64]
	// Main weight factor parameter
	WeightFactor Scalar[float64]
	// Low energy cuts (GeV)
	GammaEnergyCut    Scalar[float64]
	ElectronEnergyCut Scalar[float64]
	MuonEnergyCut     Scalar[float64]
	MesonEnergyCut    Scalar[float64]
	NucleonEnergyCut  Scalar[float64]
	// Core position with respect to the antenna array (undefined for neutrinos)
	ShowerCorePos FixedVector[float32]

	// Longitudinal profiles: particle counts versus depth
	LongDepth      VarVector2D[float32]
	LongSlantDepth VarVector2D[float32]
	LongGammas     VarVector2D[float32]
	LongEplus      VarVector2D[float32]
	LongEminus     VarVector2D[float32]
	LongMuplus     VarVector2D[float32]
	LongMuminus    VarVector2D[float32]
	LongAllch      VarVector2D[float32]
	LongNuclei     VarVector2D[float32]
	LongHadr       VarVector2D[float32]
	// Longitudinal profile of energy in created neutrinos (GeV)
	LongNeutrino VarVector2D[float32]
	// Longitudinal profiles of particles lost to the energy cuts (GeV)
	LongGammaCut VarVector2D[float32]
	LongECut     VarVector2D[float32]
	LongMuCut    VarVector2D[float32]
	LongHadrCut  VarVector2D[float32]
	// Longitudinal profiles of energy deposit (GeV)
	LongGammaIoniz VarVector2D[float32]
	LongEIoniz     VarVector2D[float32]
	LongMuIoniz    VarVector2D[float32]
	LongHadrIoniz  VarVector2D[float32]
}

// NewShowerRecord returns an empty shower record with every column
// default-initialized.
func NewShowerRecord() *ShowerRecord {
	r := &ShowerRecord{
		AtmosModelParam: NewFixedVector[float32](3),
		MagneticField:   NewFixedVector[float32](3),
		XmaxPosShc:      NewFixedVector[float64](3),
		ShowerCorePos:   NewFixedVector[float32](3),
	}
	r.recordBase = recordBase{
		treeType: "rawshower",
		treeName: "trawshower",
		fields: fieldTable{
			"shower_sim":          bindString("shower_sim", &r.ShowerSim),
			"event_name":          bindString("event_name", &r.EventName),
			"event_date":          bindString("event_date", &r.EventDate),
			"unix_date":           bindScalar("unix_date", &r.UnixDate),
			"rnd_seed":            bindScalar("rnd_seed", &r.RndSeed),
			"energy_in_neutrinos": bindScalar("energy_in_neutrinos", &r.EnergyInNeutrinos),
			"energy_primary":      bindVarVector("energy_primary", &r.EnergyPrimary),
			"azimuth":             bindScalar("azimuth", &r.Azimuth),
			"zenith":              bindScalar("zenith", &r.Zenith),
			"primary_type":        bindStringVector("primary_type", &r.PrimaryType),
			"prim_injpoint_shc":   bindVarVector2D("prim_injpoint_shc", &r.PrimInjPointShc),
			"prim_inj_alt_shc":    bindVarVector("prim_inj_alt_shc", &r.PrimInjAltShc),
			"prim_inj_dir_shc":    bindVarVector2D("prim_inj_dir_shc", &r.PrimInjDirShc),
			"atmos_model":         bindString("atmos_model", &r.AtmosModel),
			"atmos_model_param":   bindFixedVector("atmos_model_param", &r.AtmosModelParam),
			"atmos_altitude":      bindVarVector2D("atmos_altitude", &r.AtmosAltitude),
			"atmos_density":       bindVarVector2D("atmos_density", &r.AtmosDensity),
			"atmos_depth":         bindVarVector2D("atmos_depth", &r.AtmosDepth),
			"magnetic_field":      bindFixedVector("magnetic_field", &r.MagneticField),
			"xmax_grams":          bindScalar("xmax_grams", &r.XmaxGrams),
			"xmax_pos_shc":        bindFixedVector("xmax_pos_shc", &r.XmaxPosShc),
			"xmax_distance":       bindScalar("xmax_distance", &r.XmaxDistance),
			"xmax_alt":            bindScalar("xmax_alt", &r.XmaxAlt),
			"hadronic_model":      bindString("hadronic_model", &r.HadronicModel),
			"low_energy_model":    bindString("low_energy_model", &r.LowEnergyModel),
			"cpu_time":            bindScalar("cpu_time", &r.CPUTime),
			"relative_thinning":   bindScalar("relative_thinning", &r.RelativeThinning),
			"weight_factor":       bindScalar("weight_factor", &r.WeightFactor),
			"gamma_energy_cut":    bindScalar("gamma_energy_cut", &r.GammaEnergyCut),
			"electron_energy_cut": bindScalar("electron_energy_cut", &r.ElectronEnergyCut),
			"muon_energy_cut":     bindScalar("muon_energy_cut", &r.MuonEnergyCut),
			"meson_energy_cut":    bindScalar("meson_energy_cut", &r.MesonEnergyCut),
			"nucleon_energy_cut":  bindScalar("nucleon_energy_cut", &r.NucleonEnergyCut),
			"shower_core_pos":     bindFixedVector("shower_core_pos", &r.ShowerCorePos),
			"long_depth":          bindVarVector2D("long_depth", &r.LongDepth),
			"long_slantdepth":     bindVarVector2D("long_slantdepth", &r.LongSlantDepth),
			"long_gammas":         bindVarVector2D("long_gammas", &r.LongGammas),
			"long_eplus":          bindVarVector2D("long_eplus", &r.LongEplus),
			"long_eminus":         bindVarVector2D("long_eminus", &r.LongEminus),
			"long_muplus":         bindVarVector2D("long_muplus", &r.LongMuplus),
			"long_muminus":        bindVarVector2D("long_muminus", &r.LongMuminus),
			"long_allch":          bindVarVector2D("long_allch", &r.LongAllch),
			"long_nuclei":         bindVarVector2D("long_nuclei", &r.LongNuclei),
			"long_hadr":           bindVarVector2D("long_hadr", &r.LongHadr),
			"long_neutrino":       bindVarVector2D("long_neutrino", &r.LongNeutrino),
			"long_gamma_cut":      bindVarVector2D("long_gamma_cut", &r.LongGammaCut),
			"long_e_cut":          bindVarVector2D("long_e_cut", &r.LongECut),
			"long_mu_cut":         bindVarVector2D("long_mu_cut", &r.LongMuCut),
			"long_hadr_cut":       bindVarVector2D("long_hadr_cut", &r.LongHadrCut),
			"long_gamma_ioniz":    bindVarVector2D("long_gamma_ioniz", &r.LongGammaIoniz),
			"long_e_ioniz":        bindVarVector2D("long_e_ioniz", &r.LongEIoniz),
			"long_mu_ioniz":       bindVarVector2D("long_mu_ioniz", &r.LongMuIoniz),
			"long_hadr_ioniz":     bindVarVector2D("long_hadr_ioniz", &r.LongHadrIoniz),
		},
	}
	return r
}

// PrimaryCount returns the number of primaries in the event, taken
// from the primary energy column.
func (r *ShowerRecord) PrimaryCount() int {
	return r.EnergyPrimary.Len()
}

// Validate checks that the per-primary columns are parallel: position i
// in each describes the same primary. Columns left empty are skipped.
func (r *ShowerRecord) Validate() error {
	n := r.EnergyPrimary.Len()
	perPrimary := []struct {
		name string
		len  int
	}{
		{"primary_type", r.PrimaryType.Len()},
		{"prim_injpoint_shc", r.PrimInjPointShc.Len()},
		{"prim_inj_alt_shc", r.PrimInjAltShc.Len()},
		{"prim_inj_dir_shc", r.PrimInjDirShc.Len()},
	}
	for _, c := range perPrimary {
		if c.len != 0 && c.len != n {
			return &ErrLengthMismatch{Field: c.name, Want: n, Got: c.len}
		}
	}
	return nil
}
