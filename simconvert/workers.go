package main

import (
	"fmt"
)

type eventResult struct {
	Filename string
	Records  EventRecords
	Err      error
}

func worker(id int, jobs <-chan string, results chan<- eventResult) {
	for filename := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d processing %s", id, filename)
			logger.Info(message, "worker")
		}
		results <- decodeEventFile(filename)
	}
}

func decodeEventFile(filename string) (result eventResult) {
	result.Filename = filename
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("worker recovered from panic on %s: %v", filename, r)
		}
	}()

	records, err := ReadEventFile(filename)
	if err != nil {
		result.Err = err
		return result
	}
	result.Records = records
	return result
}

func sendEventsToWorkers(files []string, jobs chan<- string) {
	for _, filename := range files {
		jobs <- filename
	}
	close(jobs)
}
