package db

import (
	"os"
	"strconv"

	"gorm.io/gorm"
)

// GetDB abre a conexão a partir do ambiente. DATABASE_URL tem precedência;
// na ausência dela a DSN é montada com DB_HOST/DB_PORT/DB_NAME/DB_USERNAME/DB_PASSWORD.
func GetDB() (*gorm.DB, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return abrir(url)
	}

	db_host := os.Getenv("DB_HOST")
	db_host_port := os.Getenv("DB_PORT")
	port, err := strconv.ParseUint(db_host_port, 10, 32)
	if err != nil {
		port = 5432 // Default PostgreSQL port
	}

	db_name := os.Getenv("DB_NAME")
	db_username := os.Getenv("DB_USERNAME")
	db_password := os.Getenv("DB_PASSWORD")
	return ConnectDataBase(uint(port), db_host, db_name, db_username, db_password)
}
