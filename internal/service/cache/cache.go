package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/fsx"
	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/alert"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/settings"
	"github.com/dfhdfh403/ship-progress-monitor/internal/store"
)

// DefaultTTL 快照的默认有效期
const DefaultTTL = 30 * time.Second

// ErrNoData 从未成功加载过数据
var ErrNoData = errors.New("进度数据尚未加载")

// Loader 读取进度表的数据源
type Loader interface {
	Load() ([]model.ProjectRecord, model.Periods, error)
}

// Snapshot 一次刷新产生的完整快照
type Snapshot struct {
	ID        string
	Timestamp time.Time
	Projects  []model.ProjectRecord
	Periods   model.Periods
	Alerts    []model.AlertEvent
}

// Manager 进程级快照缓存
//
// 定时器、文件监听与 HTTP 请求都汇聚到同一个刷新入口，
// 用一把互斥锁保证快照与活跃预警整体替换、不会只更新一半。
type Manager struct {
	loader     Loader
	eval       *alert.Evaluator
	active     *alert.ActiveStore
	settings   *settings.Store
	history    *store.History
	log        zerolog.Logger
	exportPath string
	ttl        time.Duration
	now        func() time.Time

	mu        sync.Mutex
	timestamp time.Time
	snapID    string
	projects  []model.ProjectRecord
	periods   model.Periods
	alerts    []model.AlertEvent
}

// Options 缓存管理器的装配参数
type Options struct {
	Loader     Loader
	Evaluator  *alert.Evaluator
	Active     *alert.ActiveStore
	Settings   *settings.Store
	History    *store.History
	ExportPath string
	TTL        time.Duration
	Log        zerolog.Logger
	Now        func() time.Time
}

// NewManager 创建缓存管理器
func NewManager(opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		loader:     opts.Loader,
		eval:       opts.Evaluator,
		active:     opts.Active,
		settings:   opts.Settings,
		history:    opts.History,
		log:        opts.Log,
		exportPath: opts.ExportPath,
		ttl:        ttl,
		now:        now,
	}
}

// Snapshot 返回当前快照，过期或从未填充时先同步刷新
// 刷新失败但手上有旧快照时照常返回旧快照
func (m *Manager) Snapshot() (Snapshot, error) {
	_ = m.Refresh(false, "request")

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timestamp.IsZero() {
		return Snapshot{
			Projects: []model.ProjectRecord{},
			Alerts:   []model.AlertEvent{},
		}, ErrNoData
	}
	return m.snapshotLocked(), nil
}

// Refresh 重新读取进度表并重算预警
// force 为 false 时，快照仍在有效期内则什么都不做
func (m *Manager) Refresh(force bool, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !force && !m.timestamp.IsZero() && now.Sub(m.timestamp) <= m.ttl {
		return nil
	}

	projects, periods, err := m.loader.Load()
	if err != nil {
		// 保留旧快照继续服务
		m.log.Error().Err(err).Str("source", source).Msg("刷新进度数据失败")
		return err
	}

	cfg := m.settings.Get()
	alerts := m.eval.CheckAlerts(projects, cfg, now)
	m.active.Reconcile(alerts, now)

	m.projects = projects
	m.periods = periods
	m.alerts = alerts
	m.timestamp = now
	m.snapID = uuid.New().String()

	m.exportLocked()

	if err := m.history.RecordRefresh(m.snapID, source, len(projects), len(alerts), m.active.Len()); err != nil {
		m.log.Warn().Err(err).Msg("写入刷新历史失败")
	}

	m.log.Info().
		Str("snapshot", m.snapID).
		Str("source", source).
		Int("projects", len(projects)).
		Int("alerts", len(alerts)).
		Msg("进度数据已刷新")
	return nil
}

// Age 当前快照的年龄，从未填充时返回 0 时刻以来的时长
func (m *Manager) Age() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.timestamp)
}

// LastGood 返回最近一次成功的快照内容，从未成功时各字段为空
// 供降级响应使用，不触发刷新
func (m *Manager) LastGood() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        m.snapID,
		Timestamp: m.timestamp,
		Periods:   m.periods,
		Projects:  make([]model.ProjectRecord, len(m.projects)),
		Alerts:    make([]model.AlertEvent, len(m.alerts)),
	}
	copy(snap.Projects, m.projects)
	copy(snap.Alerts, m.alerts)
	return snap
}

// exportPayload 快照导出文件的结构
type exportPayload struct {
	SnapshotID   string                `json:"snapshot_id"`
	GeneratedAt  string                `json:"generated_at"`
	Projects     []model.ProjectRecord `json:"projects"`
	Periods      model.Periods         `json:"periods"`
	Alerts       []model.AlertEvent    `json:"alerts"`
	ActiveAlerts []model.AlertEvent    `json:"active_alerts"`
}

// exportLocked 整体重写导出文件，失败只记日志
func (m *Manager) exportLocked() {
	if m.exportPath == "" {
		return
	}
	payload := exportPayload{
		SnapshotID:   m.snapID,
		GeneratedAt:  m.timestamp.Format("2006-01-02 15:04:05"),
		Projects:     m.projects,
		Periods:      m.periods,
		Alerts:       m.alerts,
		ActiveAlerts: m.active.Events(),
	}
	if err := fsx.WriteJSONAtomic(m.exportPath, payload); err != nil {
		m.log.Error().Err(err).Str("path", m.exportPath).Msg("保存JSON错误")
	}
}
