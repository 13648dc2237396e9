package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// TopicDispatch carries announcement IDs ready for distribution.
const TopicDispatch = "announcement_dispatch"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub queue with retry, used when no AMQP
// broker is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// DispatchService is implemented by the announcement service.
type DispatchService interface {
	DispatchAnnouncement(id int) error
}

// StartDispatchSubscriber drives the distribution dispatcher off queued
// announcement IDs.
func StartDispatchSubscriber(q Queue, svc DispatchService) {
	go func() {
		err := q.Subscribe(TopicDispatch, func(payload any) error {
			announcementID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected int")
				return nil // no retry
			}

			log.Println("📩 Processing queued dispatch for announcement ID:", announcementID)

			if err := svc.DispatchAnnouncement(announcementID); err != nil {
				log.Println("⚠️ Failed to dispatch announcement:", err)
				return err // triggers retry in queue
			}

			log.Println("✅ Announcement dispatched:", announcementID)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for", TopicDispatch, ":", err)
		}
	}()
}
