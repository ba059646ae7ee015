package repository

import "errors"

var (
	// ErrNaoEncontrado cobre qualquer lookup sem resultado.
	ErrNaoEncontrado = errors.New("registro não encontrado")
	// ErrDuplicado indica violação de unicidade (email/username).
	ErrDuplicado = errors.New("registro duplicado")
)
