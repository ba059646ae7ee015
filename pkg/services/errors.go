package services

import "errors"

// Erros de negócio mapeados para status HTTP nos handlers. A mensagem de
// credenciais é a mesma para conta inexistente e senha errada, para não
// revelar quais contas existem.
var (
	ErrCamposObrigatorios   = errors.New("todos os campos são obrigatórios")
	ErrContaExiste          = errors.New("email ou username já cadastrado")
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
	ErrDadosInvalidos       = errors.New("dados inválidos")
	ErrNaoAutorizado        = errors.New("não autorizado")
)
