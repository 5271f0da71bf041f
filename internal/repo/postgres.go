package repo

import (
    "context"
    "errors"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/rs/zerolog"

    "github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

// Repository records run bookkeeping only; report bodies are never persisted.
type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

// EnsureSchema creates the single bookkeeping table. One table does not
// warrant a migration chain.
func (r *Repository) EnsureSchema(ctx context.Context) error {
    const q = `CREATE TABLE IF NOT EXISTS job_runs(
        id bigserial PRIMARY KEY,
        started_at timestamptz NOT NULL,
        finished_at timestamptz,
        jql text,
        issues_fetched int,
        owners int,
        sampled int,
        success boolean,
        error text
    )`
    _, err := r.db.Pool.Exec(ctx, q)
    return err
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

func (r *Repository) StartJobRun(ctx context.Context, jql string) (int64, error) {
    const q = `INSERT INTO job_runs(started_at, jql, success) VALUES(now(), $1, false) RETURNING id`
    var id int64
    if err := r.db.Pool.QueryRow(ctx, q, jql).Scan(&id); err != nil { return 0, err }
    return id, nil
}

func (r *Repository) FinishJobRun(ctx context.Context, id int64, issuesFetched, owners, sampled int, success bool, errStr string) error {
    const q = `UPDATE job_runs SET finished_at=now(), issues_fetched=$2, owners=$3, sampled=$4, success=$5, error=$6 WHERE id=$1`
    _, err := r.db.Pool.Exec(ctx, q, id, issuesFetched, owners, sampled, success, errStr)
    return err
}

type LastRun struct {
    StartedAt     time.Time  `json:"started_at"`
    FinishedAt    *time.Time `json:"finished_at"`
    JQL           string     `json:"jql"`
    IssuesFetched int        `json:"issues_fetched"`
    Owners        int        `json:"owners"`
    Sampled       int        `json:"sampled"`
    Success       bool       `json:"success"`
    Error         string     `json:"error"`
}

func (r *Repository) GetLastRun(ctx context.Context) (*LastRun, error) {
    const q = `SELECT started_at, finished_at, coalesce(jql,''),
        coalesce(issues_fetched,0), coalesce(owners,0), coalesce(sampled,0),
        coalesce(success,false), coalesce(error,'')
        FROM job_runs ORDER BY id DESC LIMIT 1`
    row := r.db.Pool.QueryRow(ctx, q)
    lr := &LastRun{}
    if err := row.Scan(&lr.StartedAt, &lr.FinishedAt, &lr.JQL, &lr.IssuesFetched, &lr.Owners, &lr.Sampled, &lr.Success, &lr.Error); err != nil {
        return nil, err
    }
    return lr, nil
}
