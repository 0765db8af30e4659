package simtrees

// EfieldRecord holds the electric-field simulation data of one event:
// per-event window parameters plus the per-antenna columns. Stored as
// one row of the "trawefield" tree.
//
// The per-antenna columns are parallel arrays: position i in du_id,
// du_name, du_x/y/z, t_0, trace_x/y/z describes the same detector
// unit. Validate checks the alignment; the writer refuses to persist a
// record that fails it.
type EfieldRecord struct {
	recordBase

	// Name and version of the electric field simulator
	EfieldSim StringScalar
	// Name of the atmospheric index of refraction model
	RefractivityModel StringScalar
	// Refractivity model parameters
	RefractivityModelParameters VarVector[float64]
	// Refractivity for each altitude of the atmosphere table
	AtmosRefractivity VarVector2D[float32]

	// The antenna time window is defined around a t0 that changes per
	// antenna: it starts on t0+t_pre (t_pre is usually negative) and
	// ends on t0+t_post.
	TPre     Scalar[float32]
	TPost    Scalar[float32]
	TBinSize Scalar[float32]

	// Detector unit IDs
	DuID VarVector[int32]
	// Detector unit names
	DuName StringVector
	// Number of detector units in the event
	DuCount Scalar[uint32]
	// Time window t0 per detector unit
	T0 VarVector[float32]
	// Peak-to-peak amplitudes, 4 blocks of du_count entries: x, y, z, modulus
	P2P VarVector[float32]
	// Detector unit positions in shower referential [m]
	DuX VarVector[float32]
	DuY VarVector[float32]
	DuZ VarVector[float32]
	// Efield traces per detector unit, one sample sequence per axis
	TraceX VarVector2D[float32]
	TraceY VarVector2D[float32]
	TraceZ VarVector2D[float32]
}

// NewEfieldRecord returns an empty efield record with every column
// default-initialized.
func NewEfieldRecord() *EfieldRecord {
	r := &EfieldRecord{}
	r.recordBase = recordBase{
		treeType: "rawefield",
		treeName: "trawefield",
		fields: fieldTable{
			"efield_sim":                    bindString("efield_sim", &r.EfieldSim),
			"refractivity_model":            bindString("refractivity_model", &r.RefractivityModel),
			"refractivity_model_parameters": bindVarVector("refractivity_model_parameters", &r.RefractivityModelParameters),
			"atmos_refractivity":            bindVarVector2D("atmos_refractivity", &r.AtmosRefractivity),
			"t_pre":                         bindScalar("t_pre", &r.TPre),
			"t_post":                        bindScalar("t_post", &r.TPost),
			"t_bin_size":                    bindScalar("t_bin_size", &r.TBinSize),
			"du_id":                         bindVarVector("du_id", &r.DuID),
			"du_name":                       bindStringVector("du_name", &r.DuName),
			"du_count":                      bindScalar("du_count", &r.DuCount),
			"t_0":                           bindVarVector("t_0", &r.T0),
			"p2p":                           bindVarVector("p2p", &r.P2P),
			"du_x":                          bindVarVector("du_x", &r.DuX),
			"du_y":                          bindVarVector("du_y", &r.DuY),
			"du_z":                          bindVarVector("du_z", &r.DuZ),
			"trace_x":                       bindVarVector2D("trace_x", &r.TraceX),
			"trace_y":                       bindVarVector2D("trace_y", &r.TraceY),
			"trace_z":                       bindVarVector2D("trace_z", &r.TraceZ),
		},
	}
	return r
}

// Validate checks the parallel-array alignment of the per-antenna
// columns against du_id. Optional columns may be empty, any non-empty
// one has to match. du_count has to equal the antenna count and p2p,
// when filled, holds 4 values per antenna.
func (r *EfieldRecord) Validate() error {
	n := r.DuID.Len()
	perDu := []struct {
		name string
		len  int
	}{
		{"du_name", r.DuName.Len()},
		{"t_0", r.T0.Len()},
		{"du_x", r.DuX.Len()},
		{"du_y", r.DuY.Len()},
		{"du_z", r.DuZ.Len()},
		{"trace_x", r.TraceX.Len()},
		{"trace_y", r.TraceY.Len()},
		{"trace_z", r.TraceZ.Len()},
	}
	for _, c := range perDu {
		if c.len != 0 && c.len != n {
			return &ErrLengthMismatch{Field: c.name, Want: n, Got: c.len}
		}
	}
	if got := int(r.DuCount.Get()); got != n {
		return &ErrLengthMismatch{Field: "du_count", Want: n, Got: got}
	}
	if got := r.P2P.Len(); got != 0 && got != 4*n {
		return &ErrLengthMismatch{Field: "p2p", Want: 4 * n, Got: got}
	}
	return nil
}
