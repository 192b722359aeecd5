// Package redis publica eventos InventoryMoved en un canal pub/sub de Redis.
package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/pkg/config"
)

const publishTimeout = 2 * time.Second

// publisher subconjunto de *goredis.Client que usa el notificador.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

var _ ports.InventoryEventPublisher = (*Notifier)(nil)

// Notifier encola eventos y los publica desde una goroutine propia.
// Si la cola está llena el evento se descarta: la notificación nunca bloquea un movimiento.
type Notifier struct {
	client  publisher
	channel string
	events  chan entity.InventoryMoved
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewClient abre el cliente de Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewNotifier construye el notificador. buffer < 1 se trata como 1.
func NewNotifier(client publisher, channel string, buffer int, log zerolog.Logger) *Notifier {
	if buffer < 1 {
		buffer = 1
	}
	return &Notifier{
		client:  client,
		channel: channel,
		events:  make(chan entity.InventoryMoved, buffer),
		log:     log,
	}
}

// Start lanza la goroutine que vacía la cola.
func (n *Notifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for ev := range n.events {
			n.publish(ev)
		}
	}()
}

// PublishInventoryMoved encola el evento sin bloquear.
func (n *Notifier) PublishInventoryMoved(_ context.Context, event entity.InventoryMoved) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.events <- event:
	default:
		n.log.Warn().
			Str("movement_id", event.MovementID).
			Msg("cola de notificaciones llena, evento descartado")
	}
}

// Close deja de aceptar eventos y espera a que se publiquen los encolados.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.events)
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) publish(ev entity.InventoryMoved) {
	data, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Str("movement_id", ev.MovementID).Msg("serializar evento")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		n.log.Warn().Err(err).Str("movement_id", ev.MovementID).Msg("publicar evento en redis")
		return
	}
	n.log.Debug().Str("movement_id", ev.MovementID).Str("channel", n.channel).Msg("evento publicado")
}
