/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    DBDSN string

    JiraBaseURL        string
    JiraEmail          string
    JiraAPIToken       string
    JiraProjects       []string
    JiraResolvedStatus string

    SamplePerOwner int
    SampleSeed     int64

    Recipients   []string
    SenderEmail  string
    SMTPHost     string
    SMTPPort     int
    SMTPUsername string
    SMTPPassword string
    DryRun       bool
    PreviewDir   string

    OpenAIKey     string
    OpenAIModel   string
    OpenAITimeout time.Duration

    AuditCron   string
    HTTPTimeout time.Duration
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func atoi64(key string, def int64) int64 {
    v := os.Getenv(key)
    if v == "" { return def }
    n, err := strconv.ParseInt(v, 10, 64)
    if err != nil { return def }
    return n
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func boolean(key string, def bool) bool {
    v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
    if v == "" { return def }
    return v == "true" || v == "1" || v == "yes"
}

func parseStrings(csv string) []string {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        out = append(out, p)
    }
    return out
}

func Load() Config {
    // .env is optional; real environment always wins
    _ = godotenv.Load()

    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "America/Bogota"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        DBDSN: getenv("DB_DSN", ""),

        JiraBaseURL:        strings.TrimRight(strings.TrimSpace(getenv("JIRA_BASE_URL", "")), "/"),
        JiraEmail:          getenv("JIRA_EMAIL", ""),
        JiraAPIToken:       getenv("JIRA_API_TOKEN", ""),
        JiraProjects:       parseStrings(getenv("JIRA_PROJECT_KEYS", "")),
        JiraResolvedStatus: getenv("JIRA_RESOLVED_STATUS", "Resolved"),

        SamplePerOwner: atoi("SAMPLE_PER_OWNER", 3),
        SampleSeed:     atoi64("SAMPLE_SEED", 0),

        Recipients:   parseStrings(getenv("RECIPIENT_EMAIL", "")),
        SenderEmail:  getenv("SENDER_EMAIL", ""),
        SMTPHost:     getenv("SMTP_SERVER", ""),
        SMTPPort:     atoi("SMTP_PORT", 587),
        SMTPUsername: getenv("SMTP_USERNAME", ""),
        SMTPPassword: getenv("SMTP_PASSWORD", ""),
        DryRun:       boolean("DRY_RUN", true),
        PreviewDir:   getenv("PREVIEW_DIR", "."),

        OpenAIKey:     getenv("OPENAI_API_KEY", ""),
        OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4.1-mini"),
        OpenAITimeout: dur("OPENAI_TIMEOUT", 15*time.Second),

        AuditCron:   getenv("CRON_SPEC", "0 7 * * *"),
        HTTPTimeout: dur("HTTP_TIMEOUT", 30*time.Second),
    }
    if cfg.SMTPUsername == "" { cfg.SMTPUsername = cfg.SenderEmail }

    // set global timezone if available
    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    } else {
        log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
    }
    return cfg
}

// Validate returns the names of required variables that are missing. The SMTP
// set is only required when a real send is going to happen.
func (c Config) Validate() []string {
    var missing []string
    if c.JiraBaseURL == "" { missing = append(missing, "JIRA_BASE_URL") }
    if c.JiraEmail == "" { missing = append(missing, "JIRA_EMAIL") }
    if c.JiraAPIToken == "" { missing = append(missing, "JIRA_API_TOKEN") }
    if len(c.JiraProjects) == 0 { missing = append(missing, "JIRA_PROJECT_KEYS") }
    if !c.DryRun {
        if len(c.Recipients) == 0 { missing = append(missing, "RECIPIENT_EMAIL") }
        if c.SenderEmail == "" { missing = append(missing, "SENDER_EMAIL") }
        if c.SMTPHost == "" { missing = append(missing, "SMTP_SERVER") }
    }
    return missing
}
