package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRun_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "计划安排进度表.xlsx")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("写测试文件失败: %v", err)
	}

	var fired atomic.Int32
	w := New(path, func() { fired.Add(1) }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// 等监听循环就绪后修改文件
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("修改测试文件失败: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("文件修改后未触发回调")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run 返回错误: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("取消后 Run 未退出")
	}
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "计划安排进度表.xlsx")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("写测试文件失败: %v", err)
	}

	var fired atomic.Int32
	w := New(path, func() { fired.Add(1) }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	other := filepath.Join(dir, "无关文件.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatalf("写无关文件失败: %v", err)
	}

	time.Sleep(debounceDelay + 500*time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("无关文件不应触发回调, fired=%d", fired.Load())
	}
}

func TestRun_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "不存在", "a.xlsx"), func() {}, zerolog.Nop())
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("目录不存在应返回错误")
	}
}
