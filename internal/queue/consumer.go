package queue

// consumer.go implements the listener behind cmd/announce-consumer.  It
// drains build.announced and appends one line per announcement to
// <logDir>/deployments.log.

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
)

// DeploymentLogFile is the file name written inside the log directory.
const DeploymentLogFile = "deployments.log"

// RunAnnouncementConsumer connects to the broker at url, declares the
// durable build.announced queue and consumes until ctx is cancelled or the
// connection fails.  It does not reconnect: a broker failure is returned
// and the process supervisor decides whether to restart.
func RunAnnouncementConsumer(ctx context.Context, url, logDir string) error {
    conn, err := amqp.Dial(url)
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("announce-consumer: set QoS failed")
    }

    if _, err := ch.QueueDeclare(BuildAnnouncedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.ConsumeWithContext(ctx, BuildAnnouncedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    log.Info().Str("queue", BuildAnnouncedQueue).Str("log_dir", logDir).Msg("announce-consumer: consuming")

    for {
        select {
        case <-ctx.Done():
            return nil
        case d, ok := <-msgs:
            if !ok {
                if ctx.Err() != nil {
                    return nil
                }
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(d.Body, logDir); err != nil {
                log.Error().Err(err).Msg("announce-consumer: handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(body []byte, logDir string) error {
    var ev BuildAnnouncedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", logDir, err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, DeploymentLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(ev BuildAnnouncedEvent) string {
    source := "file"
    if !ev.LoadedFromFile {
        source = "defaults"
    }
    return fmt.Sprintf("[%s] Build announced | service=%s | host=%s | port=%d | env=%s | mode=%s | api=%s | commit=%s | built=%s | analytics=%t | source=%s\n",
        ev.StartedAt, ev.Service, ev.Host, ev.Port, ev.Environment, ev.BuildMode, ev.APIVersion, ev.GitCommit, ev.BuildDate, ev.AnalyticsEnabled, source)
}
