package repository

import (
	"database/sql"
	"fmt"
)

// CounterRepository aloca inteiros únicos e crescentes por nome de sequência.
type CounterRepository interface {
	// Proximo incrementa o contador e devolve o novo valor. O primeiro valor
	// de um nome nunca visto é 1. A atomicidade é do banco: um único upsert
	// com incremento, nunca read-then-write no código da aplicação — assim a
	// garantia vale mesmo com várias instâncias do servidor no mesmo banco.
	Proximo(nome string) (int64, error)
}

type counterRepository struct {
	db *sql.DB
}

func NewCounterRepository(db *sql.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Proximo(nome string) (int64, error) {
	var valor int64
	err := r.db.QueryRow(
		`INSERT INTO counters (nome, valor) VALUES ($1, 1)
		 ON CONFLICT (nome) DO UPDATE SET valor = counters.valor + 1
		 RETURNING valor`, nome,
	).Scan(&valor)
	if err != nil {
		return 0, fmt.Errorf("alocar sequência %q: %w", nome, err)
	}
	return valor, nil
}
