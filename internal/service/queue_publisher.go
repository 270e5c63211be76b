// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore them without interrupting
// startup or request handling.
package queue_publisher

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"

    q "github.com/iliyamo/build-info-service/internal/queue"
)

// PublishBuildAnnounced publishes event to the durable build.announced
// queue on the broker at url.  It makes a single attempt bounded by ctx;
// the message is persistent.
func PublishBuildAnnounced(ctx context.Context, url string, event q.BuildAnnouncedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        log.Error().Err(err).Msg("rabbitmq: marshal event failed")
        return err
    }

    conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
    if err != nil {
        log.Warn().Err(err).Msg("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn().Err(err).Msg("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.BuildAnnouncedQueue, // name
        true,                  // durable
        false,                 // autoDelete
        false,                 // exclusive
        false,                 // noWait
        nil,                   // args
    ); err != nil {
        log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",                    // default exchange
        q.BuildAnnouncedQueue, // routing key = queue name
        false,                 // mandatory
        false,                 // immediate
        pub,
    ); err != nil {
        log.Warn().Err(err).Msg("rabbitmq: publish failed")
        return err
    }

    log.Info().Str("queue", q.BuildAnnouncedQueue).Str("api_version", event.APIVersion).Msg("rabbitmq: build announced")
    return nil
}

// dialTimeout derives the TCP dial timeout from ctx's deadline.
func dialTimeout(ctx context.Context) time.Duration {
    if dl, ok := ctx.Deadline(); ok {
        if d := time.Until(dl); d > 0 {
            return d
        }
        return time.Millisecond
    }
    return 30 * time.Second
}
