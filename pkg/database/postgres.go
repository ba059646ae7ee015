package database

import (
	"database/sql"
	"log"

	"srrobot/pkg/database/migrations"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func Connect(connStr string) *sql.DB {
	if connStr == "" {
		log.Println("[DB] Aviso: DATABASE_URL não definida.")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("[DB] Erro ao abrir conexão:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("[DB] Erro Ping Banco:", err)
	}

	log.Println("[DB] Conexão com PostgreSQL estabelecida.")
	return db
}

// Migrate aplica as migrações embutidas no binário.
func Migrate(db *sql.DB) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("[DB] goose dialect err: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatalf("[DB] goose up err: %v", err)
	}
	log.Println("[DB] Migrações aplicadas.")
}
