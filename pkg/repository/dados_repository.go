package repository

import (
	"database/sql"
	"time"

	"srrobot/pkg/models"
)

type DadosRepository interface {
	Criar(dado models.Dado) (models.Dado, error)
	// ListarPorUsuario devolve os registros do usuário em ordem decrescente
	// de criação; desde zero significa sem limite inferior.
	ListarPorUsuario(userID int, desde time.Time) ([]models.Dado, error)
}

type dadosRepository struct {
	db *sql.DB
}

func NewDadosRepository(db *sql.DB) DadosRepository {
	return &dadosRepository{db: db}
}

func (r *dadosRepository) Criar(dado models.Dado) (models.Dado, error) {
	err := r.db.QueryRow(
		`INSERT INTO dados (id, user_id, horas_monitoradas, eventos_totais, eventos_criticos, movimento, media)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		dado.ID, dado.UserID, dado.HorasMonitoradas, dado.EventosTotais,
		dado.EventosCriticos, dado.Movimento, dado.Media,
	).Scan(&dado.CreatedAt)
	return dado, err
}

func (r *dadosRepository) ListarPorUsuario(userID int, desde time.Time) ([]models.Dado, error) {
	var rows *sql.Rows
	var err error

	if desde.IsZero() {
		rows, err = r.db.Query(
			`SELECT id, user_id, horas_monitoradas, eventos_totais, eventos_criticos, movimento, media, created_at
			 FROM dados WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	} else {
		rows, err = r.db.Query(
			`SELECT id, user_id, horas_monitoradas, eventos_totais, eventos_criticos, movimento, media, created_at
			 FROM dados WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC`, userID, desde)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dados := []models.Dado{}
	for rows.Next() {
		var d models.Dado
		if err := rows.Scan(&d.ID, &d.UserID, &d.HorasMonitoradas, &d.EventosTotais,
			&d.EventosCriticos, &d.Movimento, &d.Media, &d.CreatedAt); err != nil {
			return nil, err
		}
		dados = append(dados, d)
	}
	return dados, rows.Err()
}
