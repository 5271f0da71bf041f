/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package mailer

import (
    "context"
    "crypto/tls"
    "fmt"
    "net"
    "net/smtp"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/rs/zerolog"
)

type Client struct {
    host       string
    port       int
    username   string
    password   string
    sender     string
    recipients []string
    dryRun     bool
    previewDir string
    log        zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        host:       cfg.SMTPHost,
        port:       cfg.SMTPPort,
        username:   cfg.SMTPUsername,
        password:   cfg.SMTPPassword,
        sender:     cfg.SenderEmail,
        recipients: cfg.Recipients,
        dryRun:     cfg.DryRun,
        previewDir: cfg.PreviewDir,
        log:        log,
    }
}

// Send delivers the HTML report to the configured recipients over SMTP with
// STARTTLS. In dry-run mode it writes a local preview file instead.
func (c *Client) Send(ctx context.Context, subject, htmlBody string) error {
    if c.dryRun { return c.savePreview(htmlBody) }
    if c.host == "" || c.sender == "" { return fmt.Errorf("mailer: missing smtp host or sender") }
    if len(c.recipients) == 0 { return fmt.Errorf("mailer: no recipients") }

    addr := fmt.Sprintf("%s:%d", c.host, c.port)
    conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
    if err != nil { return fmt.Errorf("mailer: dial %s: %w", addr, err) }
    cl, err := smtp.NewClient(conn, c.host)
    if err != nil { conn.Close(); return fmt.Errorf("mailer: handshake: %w", err) }
    defer cl.Close()

    if ok, _ := cl.Extension("STARTTLS"); ok {
        if err := cl.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
            return fmt.Errorf("mailer: starttls: %w", err)
        }
    }
    if c.password != "" {
        if err := cl.Auth(smtp.PlainAuth("", c.username, c.password, c.host)); err != nil {
            return fmt.Errorf("mailer: auth: %w", err)
        }
    }
    if err := cl.Mail(c.sender); err != nil { return fmt.Errorf("mailer: mail from: %w", err) }
    for _, rcpt := range c.recipients {
        if err := cl.Rcpt(rcpt); err != nil { return fmt.Errorf("mailer: rcpt %s: %w", rcpt, err) }
    }
    w, err := cl.Data()
    if err != nil { return fmt.Errorf("mailer: data: %w", err) }
    if _, err := w.Write(buildMessage(c.sender, c.recipients, subject, htmlBody)); err != nil {
        return fmt.Errorf("mailer: write body: %w", err)
    }
    if err := w.Close(); err != nil { return fmt.Errorf("mailer: close body: %w", err) }
    if err := cl.Quit(); err != nil { return fmt.Errorf("mailer: quit: %w", err) }
    c.log.Info().Int("recipients", len(c.recipients)).Str("subject", subject).Msg("audit email sent")
    return nil
}

func buildMessage(sender string, recipients []string, subject, htmlBody string) []byte {
    var b strings.Builder
    fmt.Fprintf(&b, "From: %s\r\n", sender)
    fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
    fmt.Fprintf(&b, "Subject: %s\r\n", subject)
    b.WriteString("MIME-Version: 1.0\r\n")
    b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
    b.WriteString("\r\n")
    b.WriteString(htmlBody)
    return []byte(b.String())
}

func (c *Client) savePreview(htmlBody string) error {
    name := fmt.Sprintf("audit_preview_%s.html", time.Now().Format("20060102_150405"))
    path := filepath.Join(c.previewDir, name)
    if err := os.WriteFile(path, []byte(htmlBody), 0o644); err != nil {
        return fmt.Errorf("mailer: write preview: %w", err)
    }
    c.log.Info().Str("path", path).Msg("dry run: preview saved, no email sent")
    return nil
}
