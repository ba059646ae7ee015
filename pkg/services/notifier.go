package services

// Notifier é o canal de push fire-and-forget: entrega é melhor-esforço,
// sem ack e sem replay. Em produção é o broker Redis alimentando os hubs
// websocket de todas as instâncias.
type Notifier interface {
	Broadcast(action, service string, data interface{})
}

// NoopNotifier serve para testes e para subir o servidor sem broker.
type NoopNotifier struct{}

func (NoopNotifier) Broadcast(action, service string, data interface{}) {}
