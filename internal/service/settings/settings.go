package settings

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/fsx"
	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

// Store 预警时间设置的进程级存储，整体替换并持久化到 JSON 文件
type Store struct {
	path string
	log  zerolog.Logger

	mu  sync.RWMutex
	cur model.AlertSettings
}

// NewStore 创建设置存储，初始为默认设置
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log,
		cur:  model.DefaultAlertSettings(),
	}
}

// Load 从文件加载设置，文件缺失或内容不完整时保留默认值
func (s *Store) Load() {
	if !fsx.FileExists(s.path) {
		return
	}

	var loaded model.AlertSettings
	if err := fsx.ReadJSON(s.path, &loaded); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("读取预警设置失败，使用默认设置")
		return
	}
	// 两个时间点都在才算有效
	if loaded.AfternoonAlertTime == "" || loaded.MorningAlertTime == "" {
		s.log.Warn().Str("path", s.path).Msg("预警设置不完整，使用默认设置")
		return
	}

	s.mu.Lock()
	s.cur = loaded
	s.mu.Unlock()
}

// Get 返回当前设置的副本
func (s *Store) Get() model.AlertSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update 校验并整体替换设置，成功后写回文件
func (s *Store) Update(afternoon, morning string) (model.AlertSettings, error) {
	if err := ValidateClock(afternoon); err != nil {
		return model.AlertSettings{}, err
	}
	if err := ValidateClock(morning); err != nil {
		return model.AlertSettings{}, err
	}

	s.mu.Lock()
	s.cur = model.AlertSettings{
		AfternoonAlertTime: afternoon,
		MorningAlertTime:   morning,
		LastModified:       time.Now().Unix(),
	}
	updated := s.cur
	s.mu.Unlock()

	if err := fsx.WriteJSONAtomic(s.path, updated); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("保存预警设置失败")
		return updated, fmt.Errorf("保存设置失败: %w", err)
	}
	return updated, nil
}

// ParseClock 解析 "HH:MM"，小时 0-23、分钟 0-59
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("时间格式无效: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("时间必须在00:00-23:59之间: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("时间必须在00:00-23:59之间: %q", s)
	}
	return h, m, nil
}

// ValidateClock 校验 "HH:MM" 时间串
func ValidateClock(s string) error {
	_, _, err := ParseClock(s)
	return err
}
