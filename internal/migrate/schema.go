package migrate

import (
	"database/sql"

	"geo-legend/internal/logger"
)

// 背景：首次运行自动创建统计表，保障后续累加
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _render_stats_total (
            action TEXT PRIMARY KEY,
            count BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _render_stats_daily (
            day DATE NOT NULL,
            action TEXT NOT NULL,
            count BIGINT NOT NULL DEFAULT 0,
            PRIMARY KEY (day, action)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_render_stats_daily_day ON _render_stats_daily(day)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
