package simtrees

import (
	"errors"
	"fmt"

	"github.com/next-exp/hdf5-go"
)

// Reader reads records back from a file produced by Writer. Rows of
// the variable-length datasets were zero-padded on write, so the
// per-primary and per-antenna columns are trimmed again using the
// prim_count and du_count stored in the compound tables, and inner
// vectors are cut back to the exact lengths recorded in the companion
// <name>_len datasets.
type Reader struct {
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

	showerArrays map[string]*hdf5.Dataset
	efieldArrays map[string]*hdf5.Dataset

	// String tables are decoded once and filtered by event afterwards.
	primaryTypeRows []stringRowHDF5
	duNameRows      []stringRowHDF5
	paramRows       []paramRowHDF5
}

func NewReader(filename string) (*Reader, error) {
	hdf5.SetStringLength(STRLEN)

	reader := &Reader{
		Filename:     filename,
		showerArrays: make(map[string]*hdf5.Dataset),
		efieldArrays: make(map[string]*hdf5.Dataset),
	}

	var err error
	reader.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Opening file: %s", filename), "reader")
	}

	steps := []func() error{
		func() (err error) { reader.ShowerGroup, err = reader.File.OpenGroup("trawshower"); return },
		func() (err error) { reader.EfieldGroup, err = reader.File.OpenGroup("trawefield"); return },
		func() (err error) { reader.ZhairesGroup, err = reader.File.OpenGroup("teventshowerzhaires"); return },
		func() (err error) { reader.ShowerTable, err = reader.ShowerGroup.OpenDataset("params"); return },
		func() (err error) { reader.EfieldTable, err = reader.EfieldGroup.OpenDataset("params"); return },
		func() (err error) { reader.ZhairesTable, err = reader.ZhairesGroup.OpenDataset("params"); return },
		func() (err error) { reader.PrimaryTypeTable, err = reader.ShowerGroup.OpenDataset("primary_type"); return },
		func() (err error) { reader.DuNameTable, err = reader.EfieldGroup.OpenDataset("du_name"); return },
		func() (err error) { reader.ExtraParamTable, err = reader.ZhairesGroup.OpenDataset("extra_params"); return },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			reader.File.Close()
			return nil, err
		}
	}
	return reader, nil
}

func tableEntries(table *hdf5.Dataset) (int, error) {
	dims, _, err := table.Space().SimpleExtentDims()
	if err != nil {
		return 0, err
	}
	return int(dims[0]), nil
}

func (r *Reader) NumShowerEntries() (int, error)  { return tableEntries(r.ShowerTable) }
func (r *Reader) NumEfieldEntries() (int, error)  { return tableEntries(r.EfieldTable) }
func (r *Reader) NumZhairesEntries() (int, error) { return tableEntries(r.ZhairesTable) }

// openArray gives access to a variable-length column dataset of a
// group. A column that was empty in every event was never created on
// write; a missing dataset reads back as an empty column.
func openArray(arrays map[string]*hdf5.Dataset, group *hdf5.Group, name string) *hdf5.Dataset {
	if dset, ok := arrays[name]; ok {
		return dset
	}
	dset, err := group.OpenDataset(name)
	if err != nil {
		dset = nil
	}
	arrays[name] = dset
	return dset
}

func readVar[T Numeric](arrays map[string]*hdf5.Dataset, group *hdf5.Group, name string, evt int, count int) ([]T, error) {
	dset := openArray(arrays, group, name)
	if dset == nil {
		return nil, nil
	}
	values, err := read2DRow[T](dset, evt)
	if err != nil {
		return nil, err
	}
	return trimTo(values, count), nil
}

// readVar2D reconstructs one event row of a 3D column. The writer pads
// every event to the dataset dimensions, so the row is cut back using
// the companion inner-lengths dataset and, for per-primary/per-antenna
// columns, the stored count. Without a count, padding rows show up as
// trailing empty vectors and are dropped; a genuinely empty trailing
// inner vector is not distinguishable from padding.
func readVar2D[T Numeric](arrays map[string]*hdf5.Dataset, group *hdf5.Group, name string, evt int, count int) ([][]T, error) {
	dset := openArray(arrays, group, name)
	if dset == nil {
		return nil, nil
	}
	values, err := read3DRow[T](dset, evt)
	if err != nil {
		return nil, err
	}
	values = trimTo(values, count)

	lensDset := openArray(arrays, group, name+"_len")
	if lensDset == nil {
		return values, nil
	}
	lengths, err := read2DRow[uint32](lensDset, evt)
	if err != nil {
		return nil, err
	}
	for i := range values {
		if i < len(lengths) && int(lengths[i]) <= len(values[i]) {
			values[i] = values[i][:lengths[i]]
		}
	}
	if count < 0 {
		for len(values) > 0 && len(values[len(values)-1]) == 0 {
			values = values[:len(values)-1]
		}
	}
	return values, nil
}

// trimTo cuts the zero padding off a row. A negative count keeps the
// full dataset width.
func trimTo[T any](values []T, count int) []T {
	if count >= 0 && count < len(values) {
		return values[:count]
	}
	return values
}

func cachedStringRows(table *hdf5.Dataset, cache *[]stringRowHDF5) ([]stringRowHDF5, error) {
	if *cache == nil {
		rows, err := readFullTable[stringRowHDF5](table)
		if err != nil {
			return nil, err
		}
		*cache = rows
	}
	return *cache, nil
}

func stringVectorForEvent(table *hdf5.Dataset, cache *[]stringRowHDF5, evt int) ([]string, error) {
	rows, err := cachedStringRows(table, cache)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, row := range rows {
		if row.evt == uint32(evt) {
			values = append(values, stringFromHdf5(row.value))
		}
	}
	return values, nil
}

// GetShowerEntry reconstructs row evt of the trawshower tree.
func (r *Reader) GetShowerEntry(evt int) (*ShowerRecord, error) {
	row, err := readTableRow[showerRowHDF5](r.ShowerTable, evt)
	if err != nil {
		return nil, err
	}

	record := NewShowerRecord()
	record.ShowerSim.Set(stringFromHdf5(row.shower_sim))
	record.EventName.Set(stringFromHdf5(row.event_name))
	record.EventDate.Set(stringFromHdf5(row.event_date))
	record.UnixDate.Set(row.unix_date)
	record.RndSeed.Set(row.rnd_seed)
	record.EnergyInNeutrinos.Set(row.energy_in_neutrinos)
	record.Azimuth.Set(row.azimuth)
	record.Zenith.Set(row.zenith)
	record.AtmosModel.Set(stringFromHdf5(row.atmos_model))
	record.XmaxGrams.Set(row.xmax_grams)
	record.XmaxDistance.Set(row.xmax_distance)
	record.XmaxAlt.Set(row.xmax_alt)
	record.HadronicModel.Set(stringFromHdf5(row.hadronic_model))
	record.LowEnergyModel.Set(stringFromHdf5(row.low_energy_model))
	record.CPUTime.Set(row.cpu_time)
	record.RelativeThinning.Set(row.relative_thinning)
	record.WeightFactor.Set(row.weight_factor)
	record.GammaEnergyCut.Set(row.gamma_energy_cut)
	record.ElectronEnergyCut.Set(row.electron_energy_cut)
	record.MuonEnergyCut.Set(row.muon_energy_cut)
	record.MesonEnergyCut.Set(row.meson_energy_cut)
	record.NucleonEnergyCut.Set(row.nucleon_energy_cut)

	var errs []error
	errs = append(errs, record.AtmosModelParam.Set(row.atmos_model_param[:]))
	errs = append(errs, record.MagneticField.Set(row.magnetic_field[:]))
	errs = append(errs, record.ShowerCorePos.Set(row.shower_core_pos[:]))
	errs = append(errs, record.XmaxPosShc.Set(row.xmax_pos_shc[:]))
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	primCount := int(row.prim_count)
	primaries, err := stringVectorForEvent(r.PrimaryTypeTable, &r.primaryTypeRows, evt)
	if err != nil {
		return nil, err
	}
	record.PrimaryType.Set(primaries)

	energy, err := readVar[float32](r.showerArrays, r.ShowerGroup, "energy_primary", evt, primCount)
	if err != nil {
		return nil, err
	}
	record.EnergyPrimary.Set(energy)

	injAlt, err := readVar[float32](r.showerArrays, r.ShowerGroup, "prim_inj_alt_shc", evt, primCount)
	if err != nil {
		return nil, err
	}
	record.PrimInjAltShc.Set(injAlt)

	for _, c := range []struct {
		name  string
		dst   *VarVector2D[float32]
		count int
	}{
		{"prim_injpoint_shc", &record.PrimInjPointShc, primCount},
		{"prim_inj_dir_shc", &record.PrimInjDirShc, primCount},
		{"atmos_altitude", &record.AtmosAltitude, -1},
		{"atmos_density", &record.AtmosDensity, -1},
		{"atmos_depth", &record.AtmosDepth, -1},
		{"long_depth", &record.LongDepth, -1},
		{"long_slantdepth", &record.LongSlantDepth, -1},
		{"long_gammas", &record.LongGammas, -1},
		{"long_eplus", &record.LongEplus, -1},
		{"long_eminus", &record.LongEminus, -1},
		{"long_muplus", &record.LongMuplus, -1},
		{"long_muminus", &record.LongMuminus, -1},
		{"long_allch", &record.LongAllch, -1},
		{"long_nuclei", &record.LongNuclei, -1},
		{"long_hadr", &record.LongHadr, -1},
		{"long_neutrino", &record.LongNeutrino, -1},
		{"long_gamma_cut", &record.LongGammaCut, -1},
		{"long_e_cut", &record.LongECut, -1},
		{"long_mu_cut", &record.LongMuCut, -1},
		{"long_hadr_cut", &record.LongHadrCut, -1},
		{"long_gamma_ioniz", &record.LongGammaIoniz, -1},
		{"long_e_ioniz", &record.LongEIoniz, -1},
		{"long_mu_ioniz", &record.LongMuIoniz, -1},
		{"long_hadr_ioniz", &record.LongHadrIoniz, -1},
	} {
		values, err := readVar2D[float32](r.showerArrays, r.ShowerGroup, c.name, evt, c.count)
		if err != nil {
			return nil, err
		}
		c.dst.Set(values)
	}
	return record, nil
}

// GetEfieldEntry reconstructs row evt of the trawefield tree.
func (r *Reader) GetEfieldEntry(evt int) (*EfieldRecord, error) {
	row, err := readTableRow[efieldRowHDF5](r.EfieldTable, evt)
	if err != nil {
		return nil, err
	}

	record := NewEfieldRecord()
	record.EfieldSim.Set(stringFromHdf5(row.efield_sim))
	record.RefractivityModel.Set(stringFromHdf5(row.refractivity_model))
	record.TPre.Set(row.t_pre)
	record.TPost.Set(row.t_post)
	record.TBinSize.Set(row.t_bin_size)
	record.DuCount.Set(row.du_count)

	duCount := int(row.du_count)
	names, err := stringVectorForEvent(r.DuNameTable, &r.duNameRows, evt)
	if err != nil {
		return nil, err
	}
	record.DuName.Set(names)

	ids, err := readVar[int32](r.efieldArrays, r.EfieldGroup, "du_id", evt, duCount)
	if err != nil {
		return nil, err
	}
	record.DuID.Set(ids)

	refParams, err := readVar[float64](r.efieldArrays, r.EfieldGroup, "refractivity_model_parameters", evt, -1)
	if err != nil {
		return nil, err
	}
	record.RefractivityModelParameters.Set(refParams)

	for _, c := range []struct {
		name  string
		dst   *VarVector[float32]
		count int
	}{
		{"t_0", &record.T0, duCount},
		{"p2p", &record.P2P, 4 * duCount},
		{"du_x", &record.DuX, duCount},
		{"du_y", &record.DuY, duCount},
		{"du_z", &record.DuZ, duCount},
	} {
		values, err := readVar[float32](r.efieldArrays, r.EfieldGroup, c.name, evt, c.count)
		if err != nil {
			return nil, err
		}
		c.dst.Set(values)
	}

	for _, c := range []struct {
		name  string
		dst   *VarVector2D[float32]
		count int
	}{
		{"atmos_refractivity", &record.AtmosRefractivity, -1},
		{"trace_x", &record.TraceX, duCount},
		{"trace_y", &record.TraceY, duCount},
		{"trace_z", &record.TraceZ, duCount},
	} {
		values, err := readVar2D[float32](r.efieldArrays, r.EfieldGroup, c.name, evt, c.count)
		if err != nil {
			return nil, err
		}
		c.dst.Set(values)
	}
	return record, nil
}

// GetZhairesEntry reconstructs row evt of the teventshowerzhaires tree.
func (r *Reader) GetZhairesEntry(evt int) (*ZHAireSExtra, error) {
	row, err := readTableRow[zhairesRowHDF5](r.ZhairesTable, evt)
	if err != nil {
		return nil, err
	}

	record := NewZHAireSExtra()
	record.RelativeThining.Set(stringFromHdf5(row.relative_thining))
	record.WeightFactor.Set(row.weight_factor)
	record.GammaEnergyCut.Set(stringFromHdf5(row.gamma_energy_cut))
	record.ElectronEnergyCut.Set(stringFromHdf5(row.electron_energy_cut))
	record.MuonEnergyCut.Set(stringFromHdf5(row.muon_energy_cut))
	record.MesonEnergyCut.Set(stringFromHdf5(row.meson_energy_cut))
	record.NucleonEnergyCut.Set(stringFromHdf5(row.nucleon_energy_cut))

	if r.paramRows == nil {
		rows, err := readFullTable[paramRowHDF5](r.ExtraParamTable)
		if err != nil {
			return nil, err
		}
		r.paramRows = rows
	}
	rows := r.paramRows
	var keys, values []string
	for _, p := range rows {
		if p.evt == uint32(evt) {
			keys = append(keys, stringFromHdf5(p.key))
			values = append(values, stringFromHdf5(p.value))
		}
	}
	if err := record.SetParameters(keys, values); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Reader) Close() error {
	var errs []error

	closeDataset := func(name string, dset *hdf5.Dataset) {
		if dset == nil {
			return
		}
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing dataset %q: %w", name, err))
		}
	}
	closeDataset("trawshower/params", r.ShowerTable)
	closeDataset("trawefield/params", r.EfieldTable)
	closeDataset("teventshowerzhaires/params", r.ZhairesTable)
	closeDataset("trawshower/primary_type", r.PrimaryTypeTable)
	closeDataset("trawefield/du_name", r.DuNameTable)
	closeDataset("teventshowerzhaires/extra_params", r.ExtraParamTable)
	for name, dset := range r.showerArrays {
		closeDataset(name, dset)
	}
	for name, dset := range r.efieldArrays {
		closeDataset(name, dset)
	}

	for _, g := range []struct {
		name  string
		group *hdf5.Group
	}{
		{"trawshower", r.ShowerGroup},
		{"trawefield", r.EfieldGroup},
		{"teventshowerzhaires", r.ZhairesGroup},
	} {
		if g.group == nil {
			continue
		}
		if err := g.group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing group %q: %w", g.name, err))
		}
	}

	if err := r.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
