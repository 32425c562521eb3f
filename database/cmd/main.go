package main

import (
	"flag"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "run the database migrations")
	seedFlag := flag.Bool("seed", false, "run the database seeders")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Running database initialization...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Database initialization done.")
}
