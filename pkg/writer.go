package simtrees

import (
	"errors"
	"fmt"

	"github.com/next-exp/hdf5-go"
)

// Writer persists records as rows of their event trees, one HDF5 group
// per tree. Scalars, strings and fixed vectors of a tree go into one
// compound table; variable-length columns go into extendable 2D/3D
// datasets whose per-event dimensions are established when the column
// first appears non-empty. Later events may be smaller (rows are
// zero-padded and trimmed again on read using the stored counts) but
// never larger.
type Writer struct {
	File     *hdf5.File
	Filename string

	ShowerGroup  *hdf5.Group
	EfieldGroup  *hdf5.Group
	ZhairesGroup *hdf5.Group

	ShowerTable      *hdf5.Dataset
	EfieldTable      *hdf5.Dataset
	ZhairesTable     *hdf5.Dataset
	PrimaryTypeTable *hdf5.Dataset
	DuNameTable      *hdf5.Dataset
	ExtraParamTable  *hdf5.Dataset

	showerArrays map[string]*varDataset
	efieldArrays map[string]*varDataset

	ShowerCount  int
	EfieldCount  int
	ZhairesCount int
}

// varDataset is one variable-length column bound to its dataset. dims
// holds the established per-event dimensions, without the event axis.
// 3D columns carry a companion [event, outer] dataset recording the
// exact inner lengths, so the zero padding can be cut off again on
// read.
type varDataset struct {
	dset *hdf5.Dataset
	lens *hdf5.Dataset
	dims []uint
}

func NewWriter(filename string) (*Writer, error) {
	hdf5.SetStringLength(STRLEN)

	if configuration.UseBlosc {
		_, _, err := hdf5.RegisterBlosc()
		if err != nil {
			logger.Error(err.Error())
			return nil, err
		}
	}

	writer := &Writer{
		Filename:     filename,
		showerArrays: make(map[string]*varDataset),
		efieldArrays: make(map[string]*varDataset),
	}

	var err error
	writer.File, err = createFile(filename)
	if err != nil {
		return nil, err
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Creating file: %s", filename), "writer")
	}

	steps := []func() error{
		func() (err error) { writer.ShowerGroup, err = createGroup(writer.File, "trawshower"); return },
		func() (err error) { writer.EfieldGroup, err = createGroup(writer.File, "trawefield"); return },
		func() (err error) { writer.ZhairesGroup, err = createGroup(writer.File, "teventshowerzhaires"); return },
		func() (err error) { writer.ShowerTable, err = createTable(writer.ShowerGroup, "params", showerRowHDF5{}); return },
		func() (err error) { writer.EfieldTable, err = createTable(writer.EfieldGroup, "params", efieldRowHDF5{}); return },
		func() (err error) {
			writer.ZhairesTable, err = createTable(writer.ZhairesGroup, "params", zhairesRowHDF5{})
			return
		},
		func() (err error) {
			writer.PrimaryTypeTable, err = createTable(writer.ShowerGroup, "primary_type", stringRowHDF5{})
			return
		},
		func() (err error) { writer.DuNameTable, err = createTable(writer.EfieldGroup, "du_name", stringRowHDF5{}); return },
		func() (err error) {
			writer.ExtraParamTable, err = createTable(writer.ZhairesGroup, "extra_params", paramRowHDF5{})
			return
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			writer.File.Close()
			return nil, err
		}
	}
	return writer, nil
}

// FillShower snapshots the record as the next row of the trawshower
// tree. The record is validated first; nothing is written on failure.
func (w *Writer) FillShower(r *ShowerRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	row := showerRowHDF5{
		shower_sim:          convertToHdf5String(r.ShowerSim.Get()),
		event_name:          convertToHdf5String(r.EventName.Get()),
		event_date:          convertToHdf5String(r.EventDate.Get()),
		unix_date:           r.UnixDate.Get(),
		rnd_seed:            r.RndSeed.Get(),
		energy_in_neutrinos: r.EnergyInNeutrinos.Get(),
		azimuth:             r.Azimuth.Get(),
		zenith:              r.Zenith.Get(),
		atmos_model:         convertToHdf5String(r.AtmosModel.Get()),
		atmos_model_param:   [3]float32(r.AtmosModelParam.Slice()),
		magnetic_field:      [3]float32(r.MagneticField.Slice()),
		xmax_grams:          r.XmaxGrams.Get(),
		xmax_pos_shc:        [3]float64(r.XmaxPosShc.Slice()),
		xmax_distance:       r.XmaxDistance.Get(),
		xmax_alt:            r.XmaxAlt.Get(),
		hadronic_model:      convertToHdf5String(r.HadronicModel.Get()),
		low_energy_model:    convertToHdf5String(r.LowEnergyModel.Get()),
		cpu_time:            r.CPUTime.Get(),
		relative_thinning:   r.RelativeThinning.Get(),
		weight_factor:       r.WeightFactor.Get(),
		gamma_energy_cut:    r.GammaEnergyCut.Get(),
		electron_energy_cut: r.ElectronEnergyCut.Get(),
		muon_energy_cut:     r.MuonEnergyCut.Get(),
		meson_energy_cut:    r.MesonEnergyCut.Get(),
		nucleon_energy_cut:  r.NucleonEnergyCut.Get(),
		shower_core_pos:     [3]float32(r.ShowerCorePos.Slice()),
		prim_count:          uint32(r.PrimaryCount()),
	}
	if err := writeEntryToTable(w.ShowerTable, row, w.ShowerCount); err != nil {
		return err
	}
	if err := appendStringVector(w.PrimaryTypeTable, w.ShowerCount, r.PrimaryType.Slice()); err != nil {
		return err
	}

	evt := w.ShowerCount
	if err := fillVar(w.showerArrays, w.ShowerGroup, "energy_primary", r.EnergyPrimary.Slice(), evt); err != nil {
		return err
	}
	if err := fillVar(w.showerArrays, w.ShowerGroup, "prim_inj_alt_shc", r.PrimInjAltShc.Slice(), evt); err != nil {
		return err
	}
	for _, c := range showerVar2DColumns(r) {
		if err := fillVar2D(w.showerArrays, w.ShowerGroup, c.name, c.values, evt); err != nil {
			return err
		}
	}

	w.ShowerCount++
	return nil
}

// FillEfield snapshots the record as the next row of the trawefield
// tree. The parallel-array alignment of the per-antenna columns is
// enforced here; a misaligned record is rejected before anything is
// written.
func (w *Writer) FillEfield(r *EfieldRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	row := efieldRowHDF5{
		efield_sim:         convertToHdf5String(r.EfieldSim.Get()),
		refractivity_model: convertToHdf5String(r.RefractivityModel.Get()),
		t_pre:              r.TPre.Get(),
		t_post:             r.TPost.Get(),
		t_bin_size:         r.TBinSize.Get(),
		du_count:           r.DuCount.Get(),
	}
	if err := writeEntryToTable(w.EfieldTable, row, w.EfieldCount); err != nil {
		return err
	}
	if err := appendStringVector(w.DuNameTable, w.EfieldCount, r.DuName.Slice()); err != nil {
		return err
	}

	evt := w.EfieldCount
	if err := fillVar(w.efieldArrays, w.EfieldGroup, "du_id", r.DuID.Slice(), evt); err != nil {
		return err
	}
	if err := fillVar(w.efieldArrays, w.EfieldGroup, "refractivity_model_parameters",
		r.RefractivityModelParameters.Slice(), evt); err != nil {
		return err
	}
	for _, c := range []struct {
		name   string
		values []float32
	}{
		{"t_0", r.T0.Slice()},
		{"p2p", r.P2P.Slice()},
		{"du_x", r.DuX.Slice()},
		{"du_y", r.DuY.Slice()},
		{"du_z", r.DuZ.Slice()},
	} {
		if err := fillVar(w.efieldArrays, w.EfieldGroup, c.name, c.values, evt); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name   string
		values [][]float32
	}{
		{"atmos_refractivity", r.AtmosRefractivity.Slice()},
		{"trace_x", r.TraceX.Slice()},
		{"trace_y", r.TraceY.Slice()},
		{"trace_z", r.TraceZ.Slice()},
	} {
		if err := fillVar2D(w.efieldArrays, w.EfieldGroup, c.name, c.values, evt); err != nil {
			return err
		}
	}

	w.EfieldCount++
	return nil
}

// FillZhaires snapshots the record as the next row of the
// teventshowerzhaires tree.
func (w *Writer) FillZhaires(r *ZHAireSExtra) error {
	if err := r.Validate(); err != nil {
		return err
	}

	row := zhairesRowHDF5{
		relative_thining:    convertToHdf5String(r.RelativeThining.Get()),
		weight_factor:       r.WeightFactor.Get(),
		gamma_energy_cut:    convertToHdf5String(r.GammaEnergyCut.Get()),
		electron_energy_cut: convertToHdf5String(r.ElectronEnergyCut.Get()),
		muon_energy_cut:     convertToHdf5String(r.MuonEnergyCut.Get()),
		meson_energy_cut:    convertToHdf5String(r.MesonEnergyCut.Get()),
		nucleon_energy_cut:  convertToHdf5String(r.NucleonEnergyCut.Get()),
	}
	if err := writeEntryToTable(w.ZhairesTable, row, w.ZhairesCount); err != nil {
		return err
	}

	params := make([]paramRowHDF5, r.ParamKey.Len())
	for i := range params {
		params[i] = paramRowHDF5{
			evt:   uint32(w.ZhairesCount),
			key:   convertToHdf5String(r.ParamKey.At(i)),
			value: convertToHdf5String(r.ParamValue.At(i)),
		}
	}
	if err := writeArrayToTable(w.ExtraParamTable, &params, w.ZhairesCount); err != nil {
		return err
	}

	w.ZhairesCount++
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	closeDataset := func(name string, dset *hdf5.Dataset) {
		if dset == nil {
			return
		}
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing dataset %q: %w", name, err))
		}
	}
	closeDataset("trawshower/params", w.ShowerTable)
	closeDataset("trawefield/params", w.EfieldTable)
	closeDataset("teventshowerzhaires/params", w.ZhairesTable)
	closeDataset("trawshower/primary_type", w.PrimaryTypeTable)
	closeDataset("trawefield/du_name", w.DuNameTable)
	closeDataset("teventshowerzhaires/extra_params", w.ExtraParamTable)
	for name, vd := range w.showerArrays {
		closeDataset(name, vd.dset)
		closeDataset(name+"_len", vd.lens)
	}
	for name, vd := range w.efieldArrays {
		closeDataset(name, vd.dset)
		closeDataset(name+"_len", vd.lens)
	}

	closeGroup := func(name string, group *hdf5.Group) {
		if group == nil {
			return
		}
		if err := group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing group %q: %w", name, err))
		}
	}
	closeGroup("trawshower", w.ShowerGroup)
	closeGroup("trawefield", w.EfieldGroup)
	closeGroup("teventshowerzhaires", w.ZhairesGroup)

	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func appendStringVector(table *hdf5.Dataset, evt int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]stringRowHDF5, len(values))
	for i, v := range values {
		rows[i] = stringRowHDF5{evt: uint32(evt), value: convertToHdf5String(v)}
	}
	return writeArrayToTable(table, &rows, evt)
}

func fillVar[T Numeric](arrays map[string]*varDataset, group *hdf5.Group, name string, values []T, evt int) error {
	vd := arrays[name]
	if vd == nil {
		// The column has not appeared yet. Earlier events stay as
		// zero rows once the dataset exists.
		if len(values) == 0 {
			return nil
		}
		dset, err := createArray2D(group, name, len(values), nativeType[T]())
		if err != nil {
			return err
		}
		vd = &varDataset{dset: dset, dims: []uint{uint(len(values))}}
		arrays[name] = vd
	}
	width := int(vd.dims[0])
	if len(values) > width {
		return &ErrTraceShape{Dataset: name, Want: vd.dims, Got: []uint{uint(len(values))}}
	}
	padded := make([]T, width)
	copy(padded, values)
	return write2DRow(vd.dset, padded, evt, width)
}

func fillVar2D[T Numeric](arrays map[string]*varDataset, group *hdf5.Group, name string, values [][]T, evt int) error {
	nOuter := len(values)
	nInner := 0
	for _, inner := range values {
		if len(inner) > nInner {
			nInner = len(inner)
		}
	}

	vd := arrays[name]
	if vd == nil {
		if nOuter == 0 || nInner == 0 {
			return nil
		}
		dset, err := createArray3D(group, name, nOuter, nInner, nativeType[T]())
		if err != nil {
			return err
		}
		lens, err := createArray2D(group, name+"_len", nOuter, nativeType[uint32]())
		if err != nil {
			return err
		}
		vd = &varDataset{dset: dset, lens: lens, dims: []uint{uint(nOuter), uint(nInner)}}
		arrays[name] = vd
	}
	wantOuter, wantInner := int(vd.dims[0]), int(vd.dims[1])
	if nOuter > wantOuter || nInner > wantInner {
		return &ErrTraceShape{Dataset: name, Want: vd.dims, Got: []uint{uint(nOuter), uint(nInner)}}
	}

	flat := make([]T, wantOuter*wantInner)
	lengths := make([]uint32, wantOuter)
	for i, inner := range values {
		copy(flat[i*wantInner:(i+1)*wantInner], inner)
		lengths[i] = uint32(len(inner))
	}
	if err := write3DRow(vd.dset, flat, evt, wantOuter, wantInner); err != nil {
		return err
	}
	return write2DRow(vd.lens, lengths, evt, wantOuter)
}

func showerVar2DColumns(r *ShowerRecord) []struct {
	name   string
	values [][]float32
} {
	return []struct {
		name   string
		values [][]float32
	}{
		{"prim_injpoint_shc", r.PrimInjPointShc.Slice()},
		{"prim_inj_dir_shc", r.PrimInjDirShc.Slice()},
		{"atmos_altitude", r.AtmosAltitude.Slice()},
		{"atmos_density", r.AtmosDensity.Slice()},
		{"atmos_depth", r.AtmosDepth.Slice()},
		{"long_depth", r.LongDepth.Slice()},
		{"long_slantdepth", r.LongSlantDepth.Slice()},
		{"long_gammas", r.LongGammas.Slice()},
		{"long_eplus", r.LongEplus.Slice()},
		{"long_eminus", r.LongEminus.Slice()},
		{"long_muplus", r.LongMuplus.Slice()},
		{"long_muminus", r.LongMuminus.Slice()},
		{"long_allch", r.LongAllch.Slice()},
		{"long_nuclei", r.LongNuclei.Slice()},
		{"long_hadr", r.LongHadr.Slice()},
		{"long_neutrino", r.LongNeutrino.Slice()},
		{"long_gamma_cut", r.LongGammaCut.Slice()},
		{"long_e_cut", r.LongECut.Slice()},
		{"long_mu_cut", r.LongMuCut.Slice()},
		{"long_hadr_cut", r.LongHadrCut.Slice()},
		{"long_gamma_ioniz", r.LongGammaIoniz.Slice()},
		{"long_e_ioniz", r.LongEIoniz.Slice()},
		{"long_mu_ioniz", r.LongMuIoniz.Slice()},
		{"long_hadr_ioniz", r.LongHadrIoniz.Slice()},
	}
}
