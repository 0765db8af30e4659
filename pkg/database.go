package simtrees

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DUInfo is one detector unit of the array deployment database.
type DUInfo struct {
	ID   int32   `db:"DUID"`
	Name string  `db:"Name"`
	X    float32 `db:"X"`
	Y    float32 `db:"Y"`
	Z    float32 `db:"Z"`
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// GetDUInfoFromDB reads the detector unit deployment valid for the
// given run: id, name and position in the array referential.
func GetDUInfoFromDB(db *sqlx.DB, runNumber int) (map[int32]DUInfo, error) {
	query := "SELECT DUID, Name, X, Y, Z FROM DUDeployment WHERE MinRun <= %d and MaxRun >= %d ORDER BY DUID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("DU deployment read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	units := make(map[int32]DUInfo)
	for rows.Next() {
		result := DUInfo{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		units[result.ID] = result
	}
	return units, nil
}

// SortedDUIDs returns the unit IDs of a deployment in ascending order.
func SortedDUIDs(units map[int32]DUInfo) []int32 {
	ids := maps.Keys(units)
	slices.Sort(ids)
	return ids
}

// FillDUGeometry backfills du_name and du_x/y/z of a record from the
// deployment, in du_id order. Units missing from the deployment fail
// with an error; the record is left untouched in that case.
func FillDUGeometry(r *EfieldRecord, units map[int32]DUInfo) error {
	n := r.DuID.Len()
	names := make([]string, n)
	xs := make([]float32, n)
	ys := make([]float32, n)
	zs := make([]float32, n)
	for i := 0; i < n; i++ {
		id := r.DuID.At(i)
		unit, ok := units[id]
		if !ok {
			return fmt.Errorf("detector unit %d not in deployment", id)
		}
		names[i] = unit.Name
		xs[i] = unit.X
		ys[i] = unit.Y
		zs[i] = unit.Z
	}
	r.DuName.Set(names)
	r.DuX.Set(xs)
	r.DuY.Set(ys)
	r.DuZ.Set(zs)
	return nil
}
