package queue

import (
    "context"
    "log"

    "frangoloco-store-api/models"
)

type orderFallback interface {
    SaveOrder(ctx context.Context, order *models.Order) error
}

// OrderSaver enfileira pedidos aprovados para persistência assíncrona.
// Se o Redis estiver indisponível, cai para a gravação síncrona no
// fallback — o pedido de um pagamento aprovado não pode se perder por
// causa da fila.
type OrderSaver struct {
    queue    *Queue
    fallback orderFallback
}

func NewOrderSaver(q *Queue, fallback orderFallback) *OrderSaver {
    return &OrderSaver{queue: q, fallback: fallback}
}

func (s *OrderSaver) SaveOrder(ctx context.Context, order *models.Order) error {
    data := map[string]interface{}{"order": order}
    if err := s.queue.Enqueue(ctx, JobTypeSaveOrder, data); err != nil {
        log.Printf("Failed to enqueue order %s, saving synchronously: %v", order.ID, err)
        return s.fallback.SaveOrder(ctx, order)
    }
    return nil
}
