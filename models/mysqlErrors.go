package models

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

// ErrRecordInUse is returned when a delete is blocked by rows that still reference the record.
var ErrRecordInUse = errors.New("record is referenced by other records")

func isForeignKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1451
	}
	return false
}

// deleteErr keeps driver details out of delete failures the dashboard shows.
func deleteErr(err error) error {
	if isForeignKeyErr(err) {
		return ErrRecordInUse
	}
	return err
}
