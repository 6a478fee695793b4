package models

import (
	"log"

	"github.com/mmdatafocus/pos_backend/config"
)

// MigrateTable creates the dashboard tables. Production schemas are owned by the POS;
// this runs for local databases and integration tests.
func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Cashier{}, &Customer{},
		&Arqueo{}, &ArqueoTransfer{},
		&Sale{}, &SaleDetail{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
