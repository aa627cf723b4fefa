package database

import (
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// ObserveFunc receives the duration of one completed database operation
type ObserveFunc func(operation string, duration time.Duration)

// RegisterMetricsCallbacks times every create, query, update, delete and raw statement
// issued through db and reports it to observe.
func RegisterMetricsCallbacks(db *gorm.DB, observe ObserveFunc) error {
	cb := db.Callback()
	hooks := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		operation := h.operation
		if err := h.before("metrics:before_"+operation, func(tx *gorm.DB) {
			tx.InstanceSet(startTimeKey, time.Now())
		}); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+operation, func(tx *gorm.DB) {
			if start, ok := tx.InstanceGet(startTimeKey); ok {
				observe(operation, time.Since(start.(time.Time)))
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
