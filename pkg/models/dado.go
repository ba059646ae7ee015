package models

import "time"

// Valores aceitos para o campo movimento.
const (
	MovimentoSim = "sim"
	MovimentoNao = "nao"
)

// Dado é um registro de sessão de monitoramento. O ID vem do alocador de
// sequência (contador "idDados"), não do SERIAL do banco.
type Dado struct {
	ID               int64     `json:"id"`
	UserID           int       `json:"user_id"`
	HorasMonitoradas float64   `json:"horas_monitoradas"`
	EventosTotais    int       `json:"eventos_totais"`
	EventosCriticos  int       `json:"eventos_criticos"`
	Movimento        string    `json:"movimento"`
	Media            float64   `json:"media"`
	CreatedAt        time.Time `json:"created_at"`
}

// Campos numéricos são ponteiros para distinguir "ausente" de zero.
type CriarDadoRequest struct {
	HorasMonitoradas *float64 `json:"horas_monitoradas"`
	EventosTotais    *int     `json:"eventos_totais"`
	EventosCriticos  *int     `json:"eventos_criticos"`
	Movimento        string   `json:"movimento"`
}
