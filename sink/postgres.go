package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rushteam/riskit/core"
)

// 支持的 database/sql 驱动名。
const (
	DriverPQ  = "postgres" // github.com/lib/pq
	DriverPGX = "pgx"      // github.com/jackc/pgx/v5/stdlib
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS risk_assessments (
	id          UUID PRIMARY KEY,
	run_id      TEXT NOT NULL,
	row_index   INTEGER NOT NULL,
	cluster     INTEGER NOT NULL,
	risk_level  TEXT NOT NULL,
	projection  JSONB,
	record      JSONB NOT NULL,
	scored_at   TIMESTAMPTZ NOT NULL
)`

// assessmentRow 对应 risk_assessments 表的一行。
type assessmentRow struct {
	ID         string         `db:"id"`
	RunID      string         `db:"run_id"`
	Row        int            `db:"row_index"`
	Cluster    int            `db:"cluster"`
	RiskLevel  string         `db:"risk_level"`
	Projection sql.NullString `db:"projection"`
	Record     string         `db:"record"`
	ScoredAt   time.Time      `db:"scored_at"`
}

// PostgresSink 把结果写入 Postgres 的 risk_assessments 表。
type PostgresSink struct {
	db *sqlx.DB
}

// OpenPostgres 连接数据库并建表；driver 为空时使用 lib/pq。
func OpenPostgres(ctx context.Context, driver, url string) (*PostgresSink, error) {
	if driver == "" {
		driver = DriverPQ
	}
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewPostgresSink(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

// Migrate 创建结果表（已存在时不变）。
func (s *PostgresSink) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create risk_assessments: %w", err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, runID string, assessments []*core.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}
	const query = `
		INSERT INTO risk_assessments (
			id, run_id, row_index, cluster, risk_level, projection, record, scored_at
		) VALUES (
			:id, :run_id, :row_index, :cluster, :risk_level, :projection, :record, :scored_at
		)`

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range assessments {
		row, err := toRow(runID, a)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("insert assessment %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func toRow(runID string, a *core.Assessment) (assessmentRow, error) {
	record, err := json.Marshal(a.Record.Map())
	if err != nil {
		return assessmentRow{}, fmt.Errorf("marshal record: %w", err)
	}
	var projection sql.NullString
	if len(a.Projection) > 0 {
		data, err := json.Marshal(a.Projection)
		if err != nil {
			return assessmentRow{}, fmt.Errorf("marshal projection: %w", err)
		}
		projection = sql.NullString{String: string(data), Valid: true}
	}
	return assessmentRow{
		ID:         a.ID,
		RunID:      runID,
		Row:        a.Row,
		Cluster:    a.Cluster,
		RiskLevel:  a.RiskLevel,
		Projection: projection,
		Record:     string(record),
		ScoredAt:   a.ScoredAt.UTC(),
	}, nil
}

// ListRun 读取一次运行的结果（按行号）。
func (s *PostgresSink) ListRun(ctx context.Context, runID string) ([]Document, error) {
	var rows []assessmentRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT id, run_id, row_index, cluster, risk_level, projection, record, scored_at
		FROM risk_assessments
		WHERE run_id = ?
		ORDER BY row_index`), runID)
	if err != nil {
		return nil, fmt.Errorf("list run %s: %w", runID, err)
	}
	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		d := Document{ID: r.ID, RunID: r.RunID, Row: r.Row, Cluster: r.Cluster, RiskLevel: r.RiskLevel, ScoredAt: r.ScoredAt}
		if r.Projection.Valid {
			if err := json.Unmarshal([]byte(r.Projection.String), &d.Projection); err != nil {
				return nil, fmt.Errorf("decode projection: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(r.Record), &d.Record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *PostgresSink) Close() error { return s.db.Close() }
