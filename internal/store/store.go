// 包 store: 提供与 PostgreSQL 的数据访问层，记录渲染与筛选操作的统计
package store

import (
	"context"
	"database/sql"

	"geo-legend/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口；nil 或未挂载连接时所有方法为空操作
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return &Store{db: db}, nil
}

func (s *Store) Enabled() bool { return s != nil && s.db != nil }

// Close: 关闭数据库连接
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.Close()
}

// IncrStats: 按操作（view/regions/range/reset/image/...）递增累计与当日计数
// 约束：统计失败只记录日志，不影响渲染
func (s *Store) IncrStats(ctx context.Context, action string) error {
	if !s.Enabled() {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO _render_stats_total(action, count) VALUES($1, 1)
        ON CONFLICT (action) DO UPDATE SET count=_render_stats_total.count+1`, action); err != nil {
		logger.L().Debug("stats_incr_error", "action", action, "err", err)
		return err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO _render_stats_daily(day, action, count) VALUES(current_date, $1, 1)
        ON CONFLICT (day, action) DO UPDATE SET count=_render_stats_daily.count+1`, action); err != nil {
		logger.L().Debug("stats_incr_error", "action", action, "err", err)
		return err
	}
	logger.L().Debug("stats_incr", "action", action)
	return nil
}

// Totals: 统计返回结构，包含累计、当日与按操作的累计次数
type Totals struct {
	Enabled bool             `json:"enabled"`
	Total   int64            `json:"total"`
	Today   int64            `json:"today"`
	Actions map[string]int64 `json:"actions"`
}

// GetTotals: 读取累计统计；未启用时返回零值
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	t := &Totals{Actions: map[string]int64{}}
	if !s.Enabled() {
		return t, nil
	}
	t.Enabled = true
	rows, err := s.db.QueryContext(ctx, "SELECT action, count FROM _render_stats_total")
	if err != nil {
		return t, err
	}
	defer rows.Close()
	for rows.Next() {
		var a string
		var n int64
		if err := rows.Scan(&a, &n); err != nil {
			return t, err
		}
		t.Actions[a] = n
		t.Total += n
	}
	if err := rows.Err(); err != nil {
		return t, err
	}
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(count), 0) FROM _render_stats_daily WHERE day=current_date")
	if err := row.Scan(&t.Today); err != nil {
		logger.L().Error("stats_today_error", "err", err)
		return t, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return t, nil
}
