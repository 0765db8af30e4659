package simtrees

import (
	"fmt"

	"github.com/next-exp/hdf5-go"
)

// STRLEN is the fixed on-disk width of string cells. Longer strings
// are truncated on write.
const STRLEN = 64

// showerRowHDF5 is the per-event compound row of the trawshower tree:
// scalars, strings and fixed-size vectors. prim_count records the
// number of primaries so the variable columns can be trimmed on read.
type showerRowHDF5 struct {
	shower_sim          [STRLEN]byte
	event_name          [STRLEN]byte
	event_date          [STRLEN]byte
	unix_date           uint32
	rnd_seed            float64
	energy_in_neutrinos float32
	azimuth             float32
	zenith              float32
	atmos_model         [STRLEN]byte
	atmos_model_param   [3]float32
	magnetic_field      [3]float32
	xmax_grams          float32
	xmax_pos_shc        [3]float64
	xmax_distance       float64
	xmax_alt            float64
	hadronic_model      [STRLEN]byte
	low_energy_model    [STRLEN]byte
	cpu_time            float32
	relative_thinning   float64
	weight_factor       float64
	gamma_energy_cut    float64
	electron_energy_cut float64
	muon_energy_cut     float64
	meson_energy_cut    float64
	nucleon_energy_cut  float64
	shower_core_pos     [3]float32
	prim_count          uint32
}

// efieldRowHDF5 is the per-event compound row of the trawefield tree.
type efieldRowHDF5 struct {
	efield_sim         [STRLEN]byte
	refractivity_model [STRLEN]byte
	t_pre              float32
	t_post             float32
	t_bin_size         float32
	du_count           uint32
}

// zhairesRowHDF5 is the per-event compound row of the
// teventshowerzhaires tree.
type zhairesRowHDF5 struct {
	relative_thining    [STRLEN]byte
	weight_factor       float64
	gamma_energy_cut    [STRLEN]byte
	electron_energy_cut [STRLEN]byte
	muon_energy_cut     [STRLEN]byte
	meson_energy_cut    [STRLEN]byte
	nucleon_energy_cut  [STRLEN]byte
}

// stringRowHDF5 carries one string-vector element: the event it
// belongs to and its value, appended in element order.
type stringRowHDF5 struct {
	evt   uint32
	value [STRLEN]byte
}

// paramRowHDF5 carries one key/value parameter of an event.
type paramRowHDF5 struct {
	evt   uint32
	key   [STRLEN]byte
	value [STRLEN]byte
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func stringFromHdf5(b [STRLEN]byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b[:])
}

func nativeType[T Numeric]() *hdf5.Datatype {
	var zero T
	switch any(zero).(type) {
	case int32:
		return hdf5.T_NATIVE_INT32
	case uint32:
		return hdf5.T_NATIVE_UINT32
	case float32:
		return hdf5.T_NATIVE_FLOAT
	case float64:
		return hdf5.T_NATIVE_DOUBLE
	}
	return nil
}

func createFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.OpenFile(fname, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, fmt.Errorf("error creating group %q: %w", groupName, err)
	}
	return g, nil
}

func createPropList(chunks []uint) (*hdf5.PropList, error) {
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	plist.SetChunk(chunks)
	if configuration.UseBlosc {
		hdf5.ConfigureBloscFilter(plist, configuration.BloscAlgorithm.Code,
			configuration.CompressionLevel, configuration.BloscShuffle.Code)
	} else {
		plist.SetDeflate(configuration.CompressionLevel)
	}
	return plist, nil
}

// createTable creates an extendable 1D dataset of compound rows, one
// row per entry.
func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	plist, err := createPropList([]uint{32768})
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// createArray2D creates an extendable [event, width] dataset.
func createArray2D(group *hdf5.Group, name string, width int, dtype *hdf5.Datatype) (*hdf5.Dataset, error) {
	dims := []uint{0, 0}
	maxDims := []uint{unlimited(), uint(width)}
	chunks := []uint{1, 32768}
	if width < 32768 {
		chunks[1] = uint(width)
	}
	return createArray(group, name, dims, maxDims, chunks, dtype)
}

// createArray3D creates an extendable [event, outer, inner] dataset.
func createArray3D(group *hdf5.Group, name string, nOuter int, nInner int, dtype *hdf5.Datatype) (*hdf5.Dataset, error) {
	dims := []uint{0, 0, 0}
	maxDims := []uint{unlimited(), uint(nOuter), uint(nInner)}
	chunks := []uint{1, 50, uint(nInner)}
	if nOuter < 50 {
		chunks[1] = uint(nOuter)
	}
	return createArray(group, name, dims, maxDims, chunks, dtype)
}

func unlimited() uint {
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	return uint(unlimitedDims)
}

func createArray(group *hdf5.Group, name string, dims []uint, maxDims []uint, chunks []uint, dtype *hdf5.Datatype) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	plist, err := createPropList(chunks)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, evtCounter int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, evtCounter)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, evtCounter int) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	entriesInFile, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return err
	}
	newsize := []uint{entriesInFile[0] + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{entriesInFile[0]}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	return dataset.WriteSubset(data, dataspace, filespace)
}

// write2DRow writes one event row of a [event, width] dataset. data
// has to be padded to the dataset width already.
func write2DRow[T Numeric](dataset *hdf5.Dataset, data []T, evtCounter int, width int) error {
	newsize := []uint{uint(evtCounter) + 1, uint(width)}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evtCounter), 0}
	count := []uint{1, uint(width)}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(&data, dataspace, filespace)
}

// write3DRow writes one event row of a [event, outer, inner] dataset
// from a row-major flattened buffer padded to outer*inner.
func write3DRow[T Numeric](dataset *hdf5.Dataset, data []T, evtCounter int, nOuter int, nInner int) error {
	newsize := []uint{uint(evtCounter) + 1, uint(nOuter), uint(nInner)}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evtCounter), 0, 0}
	count := []uint{1, uint(nOuter), uint(nInner)}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(&data, dataspace, filespace)
}

// read2DRow reads one event row of a [event, width] dataset.
func read2DRow[T Numeric](dataset *hdf5.Dataset, evt int) ([]T, error) {
	dims, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	width := dims[1]
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evt), 0}
	count := []uint{1, width}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return nil, err
	}
	defer dataspace.Close()

	data := make([]T, width)
	err = dataset.ReadSubset(&data, dataspace, filespace)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// read3DRow reads one event row of a [event, outer, inner] dataset and
// returns it unflattened.
func read3DRow[T Numeric](dataset *hdf5.Dataset, evt int) ([][]T, error) {
	dims, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	nOuter, nInner := dims[1], dims[2]
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evt), 0, 0}
	count := []uint{1, nOuter, nInner}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return nil, err
	}
	defer dataspace.Close()

	flat := make([]T, nOuter*nInner)
	err = dataset.ReadSubset(&flat, dataspace, filespace)
	if err != nil {
		return nil, err
	}

	out := make([][]T, nOuter)
	for i := uint(0); i < nOuter; i++ {
		out[i] = flat[i*nInner : (i+1)*nInner]
	}
	return out, nil
}

// readTableRow reads row evt of a compound table.
func readTableRow[T any](dataset *hdf5.Dataset, evt int) (T, error) {
	var row T
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evt)}
	count := []uint{1}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return row, err
	}
	defer dataspace.Close()

	rows := make([]T, 1)
	err = dataset.ReadSubset(&rows, dataspace, filespace)
	if err != nil {
		return row, err
	}
	return rows[0], nil
}

// readFullTable reads every row of a compound table.
func readFullTable[T any](dataset *hdf5.Dataset) ([]T, error) {
	dims, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	rows := make([]T, dims[0])
	if dims[0] == 0 {
		return rows, nil
	}
	err = dataset.Read(&rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
