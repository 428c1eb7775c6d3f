package core

import (
	"fmt"
	"log"
	"time"

	"zerobin/internal/database"
)

// SweepInterval is how often expired items are purged.
const SweepInterval = time.Minute

// SweepOnce deletes every item whose sunset has passed and reports how
// many were removed. Safe to run concurrently with request traffic and
// with nothing to expire.
func SweepOnce(db database.Database) (int64, error) {
	count, err := db.SunsetItems(time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("db.SunsetItems(). %w", err)
	}

	return count, nil
}

// SweepLoop runs the sunset sweep on a fixed interval for the life of
// the process. Errors are logged and the loop keeps going.
func SweepLoop(db database.Database, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		count, err := SweepOnce(db)
		switch {
		case err != nil:
			log.Printf("SweepOnce(db). %+v", err)
		case count == 1:
			log.Println("sunsetted 1 paste")
		case count > 1:
			log.Printf("sunsetted %d pastes", count)
		}
	}
}
