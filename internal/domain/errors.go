package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNaoEncontrado      = errors.New("recurso não encontrado")
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
	ErrEntradaInvalida    = errors.New("entrada inválida")
	ErrDuplicado          = errors.New("recurso duplicado")
	ErrNaoAutorizado      = errors.New("não autorizado")
	ErrAcessoNegado       = errors.New("acesso negado")
	ErrTransicaoInvalida  = errors.New("transição de status inválida")
	ErrArquivoVazio       = errors.New("arquivo vazio ou sem cabeçalho")
	ErrFormatoNaoSuportado = errors.New("formato de arquivo não suportado")
)
