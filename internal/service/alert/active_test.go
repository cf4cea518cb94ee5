package alert

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

func newTestActiveStore(t *testing.T) *ActiveStore {
	t.Helper()
	return NewActiveStore(filepath.Join(t.TempDir(), "alert_data.json"), zerolog.Nop())
}

func event(id int, content string) model.AlertEvent {
	return model.AlertEvent{
		ID:           id,
		ProjectName:  "项目甲",
		AlertContent: content,
		AlertDate:    "2025.06.24",
		ExpiryDate:   "2025-06-23",
	}
}

func TestReconcile_InsertUpdateRemove(t *testing.T) {
	s := newTestActiveStore(t)

	t1 := time.Date(2025, 6, 23, 14, 0, 0, 0, time.Local)
	s.Reconcile([]model.AlertEvent{event(1, "第一次")}, t1)

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries)=%d, want 1", len(entries))
	}
	if entries[0].CreatedAt != t1.Unix() {
		t.Fatalf("CreatedAt=%d, want %d", entries[0].CreatedAt, t1.Unix())
	}

	// 再次触发：载荷与时间戳刷新
	t2 := t1.Add(time.Minute)
	s.Reconcile([]model.AlertEvent{event(1, "第二次")}, t2)

	entries = s.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries)=%d, want 1", len(entries))
	}
	if entries[0].CreatedAt != t2.Unix() {
		t.Fatalf("CreatedAt=%d, 重新触发应刷新为 %d", entries[0].CreatedAt, t2.Unix())
	}
	if entries[0].Data.AlertContent != "第二次" {
		t.Fatalf("AlertContent=%q, 载荷应被替换", entries[0].Data.AlertContent)
	}

	// 从命中列表消失的条目被移除
	s.Reconcile(nil, t2.Add(time.Minute))
	if s.Len() != 0 {
		t.Fatalf("Len()=%d, want 0", s.Len())
	}
}

func TestReconcile_PersistAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alert_data.json")

	s := NewActiveStore(path, zerolog.Nop())
	now := time.Date(2025, 6, 23, 14, 0, 0, 0, time.Local)
	s.Reconcile([]model.AlertEvent{event(1, "持久化"), event(2, "持久化")}, now)

	// 新实例从文件恢复
	restored := NewActiveStore(path, zerolog.Nop())
	restored.Load()

	if restored.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", restored.Len())
	}
	events := restored.Events()
	if events[0].ID != 1 || events[1].ID != 2 {
		t.Fatalf("恢复后的条目应按 id 升序: %+v", events)
	}
}

func TestActiveStore_LoadMissingFile(t *testing.T) {
	s := newTestActiveStore(t)
	s.Load()
	if s.Len() != 0 {
		t.Fatalf("文件不存在时应为空")
	}
}

func TestActiveStore_Events_Sorted(t *testing.T) {
	s := newTestActiveStore(t)
	now := time.Now()
	s.Reconcile([]model.AlertEvent{event(3, "c"), event(1, "a"), event(2, "b")}, now)

	events := s.Events()
	for i := 1; i < len(events); i++ {
		if events[i-1].ID > events[i].ID {
			t.Fatalf("Events 应按 id 升序: %+v", events)
		}
	}
}
