package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// 编辑器保存 xlsx 时往往产生多个事件，合并后再触发刷新
const debounceDelay = 500 * time.Millisecond

// Watcher 监听进度表文件的写入并触发缓存刷新
type Watcher struct {
	path     string
	onChange func()
	log      zerolog.Logger
}

// New 创建文件监听器，onChange 在文件变化后（去抖）被调用
func New(path string, onChange func(), log zerolog.Logger) *Watcher {
	return &Watcher{path: path, onChange: onChange, log: log}
}

// Run 阻塞运行监听循环，直到 ctx 取消
func (w *Watcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return err
	}
	w.log.Info().Str("dir", dir).Str("file", base).Msg("开始监听进度表文件")

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			w.log.Info().Str("file", base).Msg("进度表已修改，更新缓存")
			w.onChange()
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// 按文件名比较，绝对/相对路径差异下更稳
			if !strings.EqualFold(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.log.Warn().Err(err).Msg("文件监听错误")
			}
		}
	}
}
