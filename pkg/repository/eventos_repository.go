package repository

import (
	"database/sql"

	"srrobot/pkg/models"
)

type EventosRepository interface {
	Criar(evento models.Evento) (models.Evento, error)
	ListarPorUsuario(userID int) ([]models.Evento, error)
}

type eventosRepository struct {
	db *sql.DB
}

func NewEventosRepository(db *sql.DB) EventosRepository {
	return &eventosRepository{db: db}
}

func (r *eventosRepository) Criar(evento models.Evento) (models.Evento, error) {
	err := r.db.QueryRow(
		`INSERT INTO eventos (user_id, tipo, valor, status, descricao)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		evento.UserID, evento.Tipo, evento.Valor, evento.Status, evento.Descricao,
	).Scan(&evento.ID, &evento.CreatedAt)
	return evento, err
}

func (r *eventosRepository) ListarPorUsuario(userID int) ([]models.Evento, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, tipo, valor, status, COALESCE(descricao, ''), created_at
		 FROM eventos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	eventos := []models.Evento{}
	for rows.Next() {
		var e models.Evento
		if err := rows.Scan(&e.ID, &e.UserID, &e.Tipo, &e.Valor, &e.Status, &e.Descricao, &e.CreatedAt); err != nil {
			return nil, err
		}
		eventos = append(eventos, e)
	}
	return eventos, rows.Err()
}
