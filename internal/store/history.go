package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// History 刷新与播报历史的 SQLite 存储层
type History struct {
	db *sql.DB
}

// Open 打开（或创建）历史数据库
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite 建议单连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	h := &History{db: db}
	if err := h.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return h, nil
}

func (h *History) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := h.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// RefreshRow 一次缓存刷新的记录
type RefreshRow struct {
	ID           int64  `json:"id"`
	SnapshotID   string `json:"snapshot_id"`
	Source       string `json:"source"`
	ProjectCount int    `json:"project_count"`
	AlertCount   int    `json:"alert_count"`
	ActiveCount  int    `json:"active_count"`
	CreatedAt    int64  `json:"created_at"`
}

// BroadcastRow 一次语音播报的记录
type BroadcastRow struct {
	ID        int64  `json:"id"`
	Mode      string `json:"mode"`
	Matched   int    `json:"matched"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

// RecordRefresh 记录一次缓存刷新
func (h *History) RecordRefresh(snapshotID, source string, projectCount, alertCount, activeCount int) error {
	if h == nil || h.db == nil {
		return nil
	}
	_, err := h.db.Exec(
		`INSERT INTO refresh_history (snapshot_id, source, project_count, alert_count, active_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snapshotID, source, projectCount, alertCount, activeCount, time.Now().Unix(),
	)
	return err
}

// RecordBroadcast 记录一次语音播报
func (h *History) RecordBroadcast(mode, message string, matched int) error {
	if h == nil || h.db == nil {
		return nil
	}
	_, err := h.db.Exec(
		`INSERT INTO broadcast_history (mode, matched, message, created_at)
		 VALUES (?, ?, ?, ?)`,
		mode, matched, message, time.Now().Unix(),
	)
	return err
}

// RecentRefreshes 最近的刷新记录，按时间倒序
func (h *History) RecentRefreshes(limit int) ([]RefreshRow, error) {
	out := make([]RefreshRow, 0)
	if h == nil || h.db == nil {
		return out, nil
	}

	rows, err := h.db.Query(
		`SELECT id, snapshot_id, source, project_count, alert_count, active_count, created_at
		 FROM refresh_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r RefreshRow
		if err := rows.Scan(&r.ID, &r.SnapshotID, &r.Source, &r.ProjectCount, &r.AlertCount, &r.ActiveCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentBroadcasts 最近的播报记录，按时间倒序
func (h *History) RecentBroadcasts(limit int) ([]BroadcastRow, error) {
	out := make([]BroadcastRow, 0)
	if h == nil || h.db == nil {
		return out, nil
	}

	rows, err := h.db.Query(
		`SELECT id, mode, matched, message, created_at
		 FROM broadcast_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r BroadcastRow
		if err := rows.Scan(&r.ID, &r.Mode, &r.Matched, &r.Message, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
