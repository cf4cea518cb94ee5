package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfhdfh403/ship-progress-monitor/internal/config"
	"github.com/dfhdfh403/ship-progress-monitor/internal/logging"
	"github.com/dfhdfh403/ship-progress-monitor/internal/scheduler"
	"github.com/dfhdfh403/ship-progress-monitor/internal/server"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/alert"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/broadcast"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/cache"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/excel"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/settings"
	"github.com/dfhdfh403/ship-progress-monitor/internal/speech"
	"github.com/dfhdfh403/ship-progress-monitor/internal/store"
	"github.com/dfhdfh403/ship-progress-monitor/internal/watcher"
)

var (
	port      = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	excelPath = flag.String("excel", "", "进度表路径 (覆盖配置文件)")
	noSpeech  = flag.Bool("no-speech", false, "关闭语音播报")
	devMode   = flag.Bool("dev", false, "开发模式")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *excelPath != "" {
		cfg.Excel.Path = *excelPath
	}
	if *noSpeech {
		cfg.Speech.Disabled = true
	}

	log := logging.New(cfg.Log.Level)

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Error().Err(err).Msg("创建数据目录失败")
		dataDir = cfg.Data.DataDir
	}

	// 刷新/播报历史，打不开不影响主流程
	history, err := store.Open(config.HistoryDBPath(dataDir))
	if err != nil {
		log.Warn().Err(err).Msg("历史数据库不可用")
		history = nil
	}

	// 设置与活跃预警从文件恢复
	settingsStore := settings.NewStore(config.SettingsPath(dataDir), log)
	settingsStore.Load()

	active := alert.NewActiveStore(config.AlertDataPath(dataDir), log)
	active.Load()

	loader := excel.NewLoader(cfg.Excel.Path, cfg.Excel.Sheet, log)
	cacheMgr := cache.NewManager(cache.Options{
		Loader:     loader,
		Evaluator:  alert.NewEvaluator(log),
		Active:     active,
		Settings:   settingsStore,
		History:    history,
		ExportPath: config.ExportPath(dataDir),
		TTL:        time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Log:        log,
	})

	// 预热缓存，失败也继续启动
	if err := cacheMgr.Refresh(true, "startup"); err != nil {
		log.Warn().Err(err).Msg("启动预热失败，等待进度表就绪")
	}

	// 语音播报
	var speaker speech.Speaker = speech.NopSpeaker{}
	if !cfg.Speech.Disabled {
		speaker = speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Args, log)
	}
	broadcaster := broadcast.New(cacheMgr, speaker, history, log)

	// 每日两次定时播报
	sched := scheduler.New(broadcaster.Trigger, log)
	sched.Start()
	if err := sched.Apply(settingsStore.Get()); err != nil {
		log.Error().Err(err).Msg("注册预警任务失败")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 进度表文件变化自动刷新缓存
	w := watcher.New(cfg.Excel.Path, func() {
		_ = cacheMgr.Refresh(true, "watcher")
	}, log)
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Warn().Err(err).Msg("文件监听退出")
		}
	}()

	srv := server.NewServer(server.Options{
		Cache:     cacheMgr,
		Settings:  settingsStore,
		Active:    active,
		Scheduler: sched,
		History:   history,
		StaticDir: cfg.Server.StaticDir,
		DevMode:   *devMode,
		Log:       log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("addr", addr).Msg("服务启动")
		if err := srv.Run(addr); err != nil {
			log.Error().Err(err).Msg("服务启动失败")
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("正在关闭服务...")
	sched.Stop()
	if err := history.Close(); err != nil {
		log.Warn().Err(err).Msg("关闭历史数据库失败")
	}
}
