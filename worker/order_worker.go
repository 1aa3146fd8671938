package worker

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "golang.org/x/sync/errgroup"

    "frangoloco-store-api/models"
    "frangoloco-store-api/queue"
    "frangoloco-store-api/storage"
)

// Worker consome a fila de pedidos aprovados e grava no OrderStore.
type Worker struct {
    queue     *queue.Queue
    orders    *storage.OrderStore
    shutdown  chan struct{}
    group     *errgroup.Group
    isRunning bool
}

func NewWorker(q *queue.Queue, orders *storage.OrderStore) *Worker {
    return &Worker{
        queue:    q,
        orders:   orders,
        shutdown: make(chan struct{}),
    }
}

// Start sobe os consumidores e o bombeador de jobs atrasados.
func (w *Worker) Start(concurrency int) {
    w.isRunning = true
    w.group = new(errgroup.Group)

    for i := 0; i < concurrency; i++ {
        workerID := i
        w.group.Go(func() error {
            w.processJobs(workerID)
            return nil
        })
    }
    w.group.Go(func() error {
        w.pumpDelayedJobs()
        return nil
    })

    log.Printf("Started %d order worker goroutines", concurrency)
}

// Stop sinaliza o encerramento e espera os consumidores terminarem.
func (w *Worker) Stop() {
    if !w.isRunning {
        return
    }
    log.Println("Stopping order worker...")
    close(w.shutdown)
    w.isRunning = false
    w.group.Wait()
}

func (w *Worker) processJobs(workerID int) {
    log.Printf("Order worker %d starting", workerID)

    for {
        select {
        case <-w.shutdown:
            log.Printf("Order worker %d shutting down", workerID)
            return
        default:
            ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
            job, err := w.queue.Dequeue(ctx, 5*time.Second)
            cancel()

            if err != nil {
                log.Printf("Order worker %d: error dequeuing job: %v", workerID, err)
                time.Sleep(time.Second)
                continue
            }
            if job == nil {
                time.Sleep(100 * time.Millisecond)
                continue
            }

            jobErr := w.processJob(job)
            ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
            if jobErr != nil {
                log.Printf("Order worker %d: error processing job %s: %v", workerID, job.ID, jobErr)
                if failErr := w.queue.FailJob(ctx, job, jobErr); failErr != nil {
                    log.Printf("Order worker %d: error marking job %s as failed: %v", workerID, job.ID, failErr)
                }
            } else if completeErr := w.queue.CompleteJob(ctx, job); completeErr != nil {
                log.Printf("Order worker %d: error marking job %s as complete: %v", workerID, job.ID, completeErr)
            }
            cancel()
        }
    }
}

// pumpDelayedJobs devolve periodicamente à fila principal os retries
// cujo horário chegou.
func (w *Worker) pumpDelayedJobs() {
    ticker := time.NewTicker(5 * time.Second)
    defer ticker.Stop()

    for {
        select {
        case <-w.shutdown:
            return
        case <-ticker.C:
            ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
                log.Printf("Error processing delayed jobs: %v", err)
            }
            cancel()
        }
    }
}

func (w *Worker) processJob(job *queue.Job) error {
    switch job.Type {
    case queue.JobTypeSaveOrder:
        return w.processSaveOrder(job)
    default:
        return fmt.Errorf("unknown job type: %s", job.Type)
    }
}

func (w *Worker) processSaveOrder(job *queue.Job) error {
    raw, ok := job.Data["order"]
    if !ok {
        return fmt.Errorf("missing order in job data")
    }

    // O payload passou pelo JSON da fila; re-serializa para recuperar o
    // tipo concreto.
    encoded, err := json.Marshal(raw)
    if err != nil {
        return fmt.Errorf("failed to re-encode order data: %v", err)
    }
    var order models.Order
    if err := json.Unmarshal(encoded, &order); err != nil {
        return fmt.Errorf("failed to decode order data: %v", err)
    }
    if order.ID == "" && len(order.Items) == 0 {
        return fmt.Errorf("invalid order in job data")
    }

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    return w.orders.SaveOrder(ctx, &order)
}
