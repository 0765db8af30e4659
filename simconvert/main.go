package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sqlx "github.com/jmoiron/sqlx"

	simtrees "github.com/grand-obs/simtrees/pkg"
)

var dbConn *sqlx.DB
var configuration simtrees.Configuration

var (
	logger         Logger
	VerbosityLevel int
	DiscardErrors  bool
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = simtrees.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	simtrees.SetConfiguration(configuration)
	simtrees.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	DiscardErrors = configuration.Discard
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration)
	}

	var units map[int32]simtrees.DUInfo
	if !configuration.NoDB {
		dbConn, err = simtrees.ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		units, err = simtrees.GetDUInfoFromDB(dbConn, configuration.RunNumber)
		if err != nil {
			message := fmt.Errorf("error reading DU deployment: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	// FileIn is a glob pattern, one JSON file per event.
	files, err := filepath.Glob(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("error expanding input pattern: %w", err)
		logger.Error(message.Error())
		return
	}
	if len(files) == 0 {
		logger.Error(fmt.Sprintf("no input files match %q", configuration.FileIn))
		return
	}
	files = selectEvents(files)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", len(files))
		logger.Info(message, "main")
	}

	var writer *simtrees.Writer
	if configuration.WriteData {
		writer, err = simtrees.NewWriter(configuration.FileOut)
		if err != nil {
			message := fmt.Errorf("error creating output file: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	jobs := make(chan string, configuration.NumWorkers)
	results := make(chan eventResult, 1000)

	for w := 1; w <= configuration.NumWorkers; w++ {
		go worker(w, jobs, results)
	}
	go sendEventsToWorkers(files, jobs)

	start := time.Now()
	evtsProcessed := 0
	evtsWritten := 0
	for range files {
		result := <-results
		evtsProcessed++
		if result.Err != nil {
			logger.Error(result.Err.Error())
			if !DiscardErrors {
				break
			}
			message := fmt.Sprintf("discarding event %s", result.Filename)
			logger.Error(message)
			continue
		}
		if writer == nil {
			continue
		}
		if err := writeEvent(writer, result.Records, units); err != nil {
			message := fmt.Errorf("error writing event %s: %w", result.Filename, err)
			logger.Error(message.Error())
			if !DiscardErrors {
				break
			}
			continue
		}
		evtsWritten++
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			message := fmt.Errorf("error closing output file: %w", err)
			logger.Error(message.Error())
		}
	}

	duration := time.Since(start)
	fmt.Println("Events processed: ", evtsProcessed)
	fmt.Println("Events written: ", evtsWritten)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

// selectEvents applies the skip and max-events windows to the sorted
// input file list.
func selectEvents(files []string) []string {
	if configuration.Skip > 0 {
		if configuration.Skip >= len(files) {
			return nil
		}
		files = files[configuration.Skip:]
	}
	if configuration.MaxEvents < len(files) {
		files = files[:configuration.MaxEvents]
	}
	return files
}

func writeEvent(writer *simtrees.Writer, records EventRecords, units map[int32]simtrees.DUInfo) error {
	if units != nil {
		if err := simtrees.FillDUGeometry(records.Efield, units); err != nil {
			return err
		}
	}
	if configuration.ComputeP2P {
		if err := simtrees.ComputeP2P(records.Efield); err != nil {
			return err
		}
	}
	if err := writer.FillShower(records.Shower); err != nil {
		return err
	}
	if err := writer.FillEfield(records.Efield); err != nil {
		return err
	}
	return writer.FillZhaires(records.Zhaires)
}

func printConfiguration(config simtrees.Configuration) {
	message := fmt.Sprintf("Configuration: %+v", config)
	logger.Info(message, "main")
}
