package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/spf13/cobra"

	simtrees "github.com/grand-obs/simtrees/pkg"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "treeexport [shower|efield] IN_FILE OUT_DIR",
	Short:   "exports event trees into the Apache Parquet format for analysis",
	Args:    cobra.ExactArgs(3),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(_ *cobra.Command, args []string) error {
	tree := args[0]
	inPath := args[1]
	outDir := args[2]

	reader, err := simtrees.NewReader(inPath)
	if err != nil {
		return err
	}
	defer func() {
		err := reader.Close()
		if err != nil {
			fmt.Println(err)
		}
	}()

	switch tree {
	case "shower":
		return exportShower(reader, filepath.Join(outDir, "shower.parquet"))
	case "efield":
		return exportEfield(reader, filepath.Join(outDir, "efield.parquet"))
	}
	return fmt.Errorf("unknown tree %q, only shower and efield are supported", tree)
}

// exportShower writes one parquet row per event with the scalar shower
// observables.
func exportShower(reader *simtrees.Reader, outPath string) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "event", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "event_name", Type: arrow.BinaryTypes.String},
		{Name: "shower_sim", Type: arrow.BinaryTypes.String},
		{Name: "unix_date", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "zenith", Type: arrow.PrimitiveTypes.Float32},
		{Name: "azimuth", Type: arrow.PrimitiveTypes.Float32},
		{Name: "prim_count", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "energy_total", Type: arrow.PrimitiveTypes.Float64},
		{Name: "xmax_grams", Type: arrow.PrimitiveTypes.Float32},
		{Name: "xmax_alt", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	allocator := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(allocator, schema)
	defer builder.Release()

	entries, err := reader.NumShowerEntries()
	if err != nil {
		return err
	}
	for evt := 0; evt < entries; evt++ {
		record, err := reader.GetShowerEntry(evt)
		if err != nil {
			return err
		}

		var energyTotal float64
		for _, e := range record.EnergyPrimary.Slice() {
			energyTotal += float64(e)
		}

		builder.Field(0).(*array.Uint32Builder).Append(uint32(evt))
		builder.Field(1).(*array.StringBuilder).Append(record.EventName.Get())
		builder.Field(2).(*array.StringBuilder).Append(record.ShowerSim.Get())
		builder.Field(3).(*array.Uint32Builder).Append(record.UnixDate.Get())
		builder.Field(4).(*array.Float32Builder).Append(record.Zenith.Get())
		builder.Field(5).(*array.Float32Builder).Append(record.Azimuth.Get())
		builder.Field(6).(*array.Uint32Builder).Append(uint32(record.PrimaryCount()))
		builder.Field(7).(*array.Float64Builder).Append(energyTotal)
		builder.Field(8).(*array.Float32Builder).Append(record.XmaxGrams.Get())
		builder.Field(9).(*array.Float64Builder).Append(record.XmaxAlt.Get())
	}

	return writeParquet(schema, builder, outPath)
}

// exportEfield writes one parquet row per detector unit per event: the
// unit identity, its position and the four peak-to-peak amplitudes.
func exportEfield(reader *simtrees.Reader, outPath string) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "event", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "du_id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "du_name", Type: arrow.BinaryTypes.String},
		{Name: "du_x", Type: arrow.PrimitiveTypes.Float32},
		{Name: "du_y", Type: arrow.PrimitiveTypes.Float32},
		{Name: "du_z", Type: arrow.PrimitiveTypes.Float32},
		{Name: "t_0", Type: arrow.PrimitiveTypes.Float32},
		{Name: "p2p_x", Type: arrow.PrimitiveTypes.Float32},
		{Name: "p2p_y", Type: arrow.PrimitiveTypes.Float32},
		{Name: "p2p_z", Type: arrow.PrimitiveTypes.Float32},
		{Name: "p2p_total", Type: arrow.PrimitiveTypes.Float32},
	}, nil)

	allocator := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(allocator, schema)
	defer builder.Release()

	appendOrZero := func(field int, values []float32, i int) {
		b := builder.Field(field).(*array.Float32Builder)
		if i < len(values) {
			b.Append(values[i])
			return
		}
		b.Append(0)
	}

	entries, err := reader.NumEfieldEntries()
	if err != nil {
		return err
	}
	for evt := 0; evt < entries; evt++ {
		record, err := reader.GetEfieldEntry(evt)
		if err != nil {
			return err
		}

		n := record.DuID.Len()
		names := record.DuName.Slice()
		xs := record.DuX.Slice()
		ys := record.DuY.Slice()
		zs := record.DuZ.Slice()
		t0s := record.T0.Slice()
		p2p := record.P2P.Slice()

		for i := 0; i < n; i++ {
			builder.Field(0).(*array.Uint32Builder).Append(uint32(evt))
			builder.Field(1).(*array.Int32Builder).Append(record.DuID.At(i))
			name := ""
			if i < len(names) {
				name = names[i]
			}
			builder.Field(2).(*array.StringBuilder).Append(name)
			appendOrZero(3, xs, i)
			appendOrZero(4, ys, i)
			appendOrZero(5, zs, i)
			appendOrZero(6, t0s, i)
			// p2p holds four blocks of n entries: x, y, z, modulus.
			appendOrZero(7, p2p, i)
			appendOrZero(8, p2p, n+i)
			appendOrZero(9, p2p, 2*n+i)
			appendOrZero(10, p2p, 3*n+i)
		}
	}

	return writeParquet(schema, builder, outPath)
}

func writeParquet(schema *arrow.Schema, builder *array.RecordBuilder, outPath string) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	// Don't close outFile; parquet handles closing it.

	record := builder.NewRecord()
	defer record.Release()

	writer, err := pqarrow.NewFileWriter(
		schema,
		outFile,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		outFile.Close()
		return err
	}

	if err := writer.Write(record); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
