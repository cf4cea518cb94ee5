package alert

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/fsx"
	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

// ActiveStore 活跃预警的内存映射，按项目 id（字符串）为键
// 这是进程重启后唯一保留的服务端状态，整体写入 JSON 文件
type ActiveStore struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	entries map[string]model.ActiveAlertEntry
}

// NewActiveStore 创建活跃预警存储
func NewActiveStore(path string, log zerolog.Logger) *ActiveStore {
	return &ActiveStore{
		path:    path,
		log:     log,
		entries: make(map[string]model.ActiveAlertEntry),
	}
}

// Load 启动时从文件恢复活跃预警，文件缺失不算错误
func (s *ActiveStore) Load() {
	if !fsx.FileExists(s.path) {
		return
	}

	var saved []model.ActiveAlertEntry
	if err := fsx.ReadJSON(s.path, &saved); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("加载预警数据错误")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range saved {
		s.entries[strconv.Itoa(entry.Data.ID)] = entry
	}
	s.log.Info().Int("count", len(s.entries)).Msg("已加载活跃预警")
}

// Reconcile 用最新的命中列表对账活跃预警并整体持久化
//
// 不在命中列表中的条目被移除；已存在的条目刷新载荷与时间戳；
// 新出现的条目以 now 作为创建时间插入。持久化失败只记日志。
func (s *ActiveStore) Reconcile(alerts []model.AlertEvent, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string]struct{}, len(alerts))
	for _, a := range alerts {
		current[strconv.Itoa(a.ID)] = struct{}{}
	}

	for id := range s.entries {
		if _, still := current[id]; !still {
			s.log.Info().Str("id", id).Msg("移除过期预警")
			delete(s.entries, id)
		}
	}

	expiry := DateOnly(now).Format("2006-01-02")
	for _, a := range alerts {
		id := strconv.Itoa(a.ID)
		if _, exists := s.entries[id]; exists {
			s.log.Info().Str("project", a.ProjectName).Msg("更新预警")
		} else {
			s.log.Info().Str("project", a.ProjectName).Msg("添加新预警")
		}
		s.entries[id] = model.ActiveAlertEntry{
			Data:       a,
			CreatedAt:  now.Unix(),
			ExpiryDate: expiry,
		}
	}

	if err := fsx.WriteJSONAtomic(s.path, s.valuesLocked()); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("保存预警数据错误")
	}
}

// Events 返回当前全部活跃预警的事件载荷，按 id 升序
func (s *ActiveStore) Events() []model.AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AlertEvent, 0, len(s.entries))
	for _, entry := range s.valuesLocked() {
		out = append(out, entry.Data)
	}
	return out
}

// Entries 返回全部持久化条目的副本，按 id 升序
func (s *ActiveStore) Entries() []model.ActiveAlertEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valuesLocked()
}

// Len 当前活跃预警数量
func (s *ActiveStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *ActiveStore) valuesLocked() []model.ActiveAlertEntry {
	out := make([]model.ActiveAlertEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Data.ID < out[j].Data.ID
	})
	return out
}
