package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// DispatchJob is the wire payload for queued dispatches.
type DispatchJob struct {
	AnnouncementID int `json:"announcement_id"`
}

// AMQPQueue publishes dispatch jobs to RabbitMQ for the out-of-process
// worker. Consumption happens in cmd/worker, so Subscribe is unsupported.
type AMQPQueue struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPQueue{Conn: conn, Ch: ch}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	announcementID, ok := payload.(int)
	if !ok {
		return fmt.Errorf("expected int payload, got %T", payload)
	}

	declared, err := q.Ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(DispatchJob{AnnouncementID: announcementID})
	if err != nil {
		return err
	}

	return q.Ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("AMQP consumption runs in cmd/worker, not via Subscribe")
}

func (q *AMQPQueue) Close() {
	if q.Ch != nil {
		q.Ch.Close()
	}
	if q.Conn != nil {
		q.Conn.Close()
	}
}

var _ Queue = (*AMQPQueue)(nil)
