package speech

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// Speaker 语音播报接口，Speak 同步阻塞到播放完成
type Speaker interface {
	Speak(message string) error
}

// NopSpeaker 关闭播报时的空实现
type NopSpeaker struct{}

// Speak 什么都不做
func (NopSpeaker) Speak(string) error { return nil }

// CommandSpeaker 调用系统语音命令进行播报
// 支持 Windows (SAPI), macOS (say), Linux (espeak-ng / espeak)
type CommandSpeaker struct {
	command string
	args    []string
	log     zerolog.Logger
}

// NewCommandSpeaker 创建命令播报器
// command 为空时按操作系统选择默认命令
func NewCommandSpeaker(command string, args []string, log zerolog.Logger) *CommandSpeaker {
	return &CommandSpeaker{command: command, args: args, log: log}
}

// Speak 播报一条消息，阻塞到播放结束
func (s *CommandSpeaker) Speak(message string) error {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	if s.command != "" {
		args := append(append([]string{}, s.args...), message)
		return exec.Command(s.command, args...).Run()
	}

	switch runtime.GOOS {
	case "windows":
		// 通过 PowerShell 调用 SAPI，避免额外依赖
		script := fmt.Sprintf(
			"Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak('%s')",
			strings.ReplaceAll(message, "'", "''"),
		)
		return exec.Command("powershell", "-NoProfile", "-Command", script).Run()
	case "darwin":
		return exec.Command("say", message).Run()
	default:
		// Linux: 优先 espeak-ng，失败则降级到 espeak
		err := exec.Command("espeak-ng", "-v", "zh", message).Run()
		if err == nil {
			return nil
		}
		s.log.Debug().Err(err).Msg("espeak-ng 播报失败，尝试 espeak")
		return exec.Command("espeak", "-v", "zh", message).Run()
	}
}
