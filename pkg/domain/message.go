package domain

// Command representa uma intenção de alterar o estado do sistema.
type Command[T any] interface {
	CommandName() string
	Payload() T
}

// Query representa uma leitura; o nome escolhe o handler e o payload carrega os filtros.
type Query[T any] interface {
	QueryName() string
	Payload() T
}

// Event representa um fato já ocorrido.
type Event[T any] interface {
	EventName() string
	Payload() T
}

// IDGenerator produz identificadores para entidades criadas pelos handlers.
type IDGenerator[T any] func() T
