package models

import "time"

// Evento é uma ocorrência pontual reportada pelo app (alerta, falha de
// sensor, etc), separada dos registros agregados em Dado.
type Evento struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Tipo      string    `json:"tipo"`
	Valor     float64   `json:"valor"`
	Status    string    `json:"status"`
	Descricao string    `json:"descricao"`
	CreatedAt time.Time `json:"created_at"`
}

type CriarEventoRequest struct {
	UserID    int      `json:"user_id"`
	Tipo      string   `json:"tipo"`
	Valor     *float64 `json:"valor"`
	Status    string   `json:"status"`
	Descricao string   `json:"descricao"`
}
