package wtl

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//OpenResultsDB opens (or creates) the sqlite results database and ensures
//the schema exists.
func OpenResultsDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open results db")
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			random_init INTEGER NOT NULL,
			fixed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accuracy(
			run_id INTEGER NOT NULL,
			epoch INTEGER NOT NULL,
			split TEXT NOT NULL,
			value REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alpha_history(
			run_id INTEGER NOT NULL,
			epoch INTEGER NOT NULL,
			feature INTEGER NOT NULL,
			alpha REAL NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, errors.Wrap(err, "create results schema")
		}
	}
	return db, nil
}

//WriteSQLite persists the accuracy curves and the alpha trajectories of the
//study into the results database, one transaction for the whole study.
func (study StudyResult) WriteSQLite(path string, configs []RunConfig) error {
	db, err := OpenResultsDB(path)
	if err != nil {
		return err
	}
	defer func() { HandleError(db.Close()) }()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin results transaction")
	}

	for runInd, run := range study.Runs {
		config := configs[runInd]
		res, err := tx.Exec(
			"INSERT INTO runs(name, random_init, fixed) VALUES(?,?,?)",
			run.Name, boolToInt(config.RandomInit), boolToInt(config.Fixed),
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert run %q", run.Name)
		}
		runID, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "run id")
		}

		for epoch := range run.TrainAccuracy {
			if _, err := tx.Exec(
				"INSERT INTO accuracy(run_id, epoch, split, value) VALUES(?,?,?,?)",
				runID, epoch, "train", run.TrainAccuracy[epoch],
			); err != nil {
				tx.Rollback()
				return errors.Wrap(err, "insert train accuracy")
			}
			if _, err := tx.Exec(
				"INSERT INTO accuracy(run_id, epoch, split, value) VALUES(?,?,?,?)",
				runID, epoch, "test", run.TestAccuracy[epoch],
			); err != nil {
				tx.Rollback()
				return errors.Wrap(err, "insert test accuracy")
			}
		}

		for rowInd, step := range run.AlphaSteps {
			for q, alpha := range run.AlphaRows[rowInd] {
				if _, err := tx.Exec(
					"INSERT INTO alpha_history(run_id, epoch, feature, alpha) VALUES(?,?,?,?)",
					runID, step, q, alpha,
				); err != nil {
					tx.Rollback()
					return errors.Wrap(err, "insert alpha history")
				}
			}
		}
	}

	return errors.Wrap(tx.Commit(), "commit results transaction")
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
