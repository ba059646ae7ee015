package broker

import (
	"context"
	"encoding/json"
	"log"

	"srrobot/pkg/envelope"

	"github.com/redis/go-redis/v9"
)

// Broker é o pub/sub Redis que liga as instâncias do servidor: um evento
// publicado por qualquer instância chega ao hub websocket de todas elas.
// Entrega é melhor-esforço; mensagem perdida não é reenviada.
type Broker struct {
	rdb      *redis.Client
	ctx      context.Context
	cancel   context.CancelFunc
	handlers map[string]HandlerFunc
}

type HandlerFunc func(envelope.Envelope)

func New(redisURL string) *Broker {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("[BROKER] redis url inválida:", err)
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithCancel(context.Background())

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("[BROKER] redis ping falhou:", err)
	}

	return &Broker{
		rdb:      rdb,
		ctx:      ctx,
		cancel:   cancel,
		handlers: make(map[string]HandlerFunc),
	}
}

// On registra o handler de uma action. Registrar antes de Subscribe; o
// mapa não é protegido contra escrita concorrente.
func (b *Broker) On(action string, fn HandlerFunc) {
	b.handlers[action] = fn
}

func (b *Broker) Subscribe(channels ...string) {
	sub := b.rdb.Subscribe(b.ctx, channels...)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-b.ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope.Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					continue
				}
				if fn, ok := b.handlers[env.Action]; ok {
					go fn(env)
				}
			}
		}
	}()
}

func (b *Broker) Publish(channel string, env envelope.Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}
	return b.rdb.Publish(b.ctx, channel, data).Err()
}

func (b *Broker) Broadcast(channel, action, service string, data interface{}) error {
	env, err := envelope.NewEvent(action, service, data)
	if err != nil {
		return err
	}
	return b.Publish(channel, env)
}

func (b *Broker) Close() {
	b.cancel()
	b.rdb.Close()
}
