// Package publish sends submitted timesheets to an approval queue.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/emilianohg/weeksheet/internal/logging"
	"github.com/emilianohg/weeksheet/internal/models"
)

const publishTimeout = 5 * time.Second

// Publisher delivers submitted timesheets.
type Publisher interface {
	PublishSubmitted(ctx context.Context, sheet *models.Timesheet) error
	Close() error
}

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       *slog.Logger
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logging.Component("publish"),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *Client) PublishSubmitted(ctx context.Context, sheet *models.Timesheet) error {
	msg := NewTimesheetSubmittedMessage(sheet)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    sheet.ID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.logger.InfoContext(ctx, "published submitted timesheet",
		"timesheet_id", sheet.ID,
		logging.KeyWeek, msg.WeekStart,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Noop is used when no broker is configured. Submitting then only stores
// the week locally.
type Noop struct{}

func (Noop) PublishSubmitted(ctx context.Context, sheet *models.Timesheet) error {
	logging.Component("publish").DebugContext(ctx, "no broker configured, skipping publish", "timesheet_id", sheet.ID)
	return nil
}

func (Noop) Close() error { return nil }

// New connects to url, or returns Noop when url is empty.
func New(url, exchangeName, queueName string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewClient(url, exchangeName, queueName)
}
