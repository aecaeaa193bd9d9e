// Package storage keeps benchmark run history in a local badger database so
// regressions show up across engine builds.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type BenchResult struct {
	Suite     string        `json:"suite"`
	Version   string        `json:"version"`
	Depth     int           `json:"depth"`
	Positions int           `json:"positions"`
	Solved    int           `json:"solved"`
	Nodes     int64         `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
	Date      time.Time     `json:"date"`
}

type Storage struct {
	db *badger.DB
}

func Open(dir string) (*Storage, error) {
	var opts = badger.DefaultOptions(dir).WithLogger(nil)
	var db, err = badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func benchKey(suite string, date time.Time) []byte {
	return []byte(fmt.Sprintf("bench/%s/%s", suite, date.Format(time.RFC3339Nano)))
}

func (s *Storage) SaveBenchResult(result BenchResult) error {
	var data, err = json.Marshal(result)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(benchKey(result.Suite, result.Date), data)
	})
}

// BenchHistory returns the stored runs of a suite in chronological order.
func (s *Storage) BenchHistory(suite string) ([]BenchResult, error) {
	var results []BenchResult
	var err = s.db.View(func(txn *badger.Txn) error {
		var it = txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		var prefix = []byte("bench/" + suite + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item = it.Item()
			var innerErr = item.Value(func(val []byte) error {
				var result BenchResult
				if err := json.Unmarshal(val, &result); err != nil {
					return err
				}
				results = append(results, result)
				return nil
			})
			if innerErr != nil {
				return innerErr
			}
		}
		return nil
	})
	return results, err
}
