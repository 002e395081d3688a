package proc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"panelkeeper/internal/logger"
)

/**
 * ProcessInstance 临时进程实例
 * @property {string} title - 进程标题，用于日志
 * @property {string} command - 执行命令
 * @property {[]string} args - 命令参数
 * @property {string} workDir - 工作目录
 * @description
 * - Temporary supervision only: the admin bootstrap runs the freshly built
 *   panel through this, independent of the permanent systemd unit, and tears
 *   it down afterwards
 * - No restart logic; the process either lives long enough or the bootstrap
 *   step reports the failure
 */
type ProcessInstance struct {
	Title   string
	Command string
	Args    []string
	WorkDir string
	Env     []string

	process *os.Process
	waitErr chan error
	mutex   sync.Mutex
}

func NewProcessInstance(title, command string, args []string) *ProcessInstance {
	return &ProcessInstance{
		Title:   title,
		Command: command,
		Args:    args,
	}
}

/**
 * Start 启动进程
 * @returns {error} 启动失败时返回错误
 */
func (pi *ProcessInstance) Start(ctx context.Context) error {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()

	if pi.process != nil {
		return fmt.Errorf("process %s already started", pi.Title)
	}

	cmd := exec.CommandContext(ctx, pi.Command, pi.Args...)
	cmd.Dir = pi.WorkDir
	if len(pi.Env) > 0 {
		cmd.Env = append(os.Environ(), pi.Env...)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", pi.Title, err)
	}
	pi.process = cmd.Process
	pi.waitErr = make(chan error, 1)
	go func() {
		pi.waitErr <- cmd.Wait()
	}()
	logger.Infof("Started temporary process %s (pid %d)", pi.Title, cmd.Process.Pid)
	return nil
}

// Pid returns the process id, 0 when not running.
func (pi *ProcessInstance) Pid() int {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()
	if pi.process == nil {
		return 0
	}
	return pi.process.Pid
}

/**
 * Alive 判断进程是否还在运行
 */
func (pi *ProcessInstance) Alive() bool {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()
	if pi.process == nil {
		return false
	}
	select {
	case err := <-pi.waitErr:
		// 进程已退出，把结果放回去供Stop读取
		pi.waitErr <- err
		return false
	default:
		return true
	}
}

/**
 * Stop 停止进程：先SIGTERM，超时后SIGKILL
 */
func (pi *ProcessInstance) Stop() {
	pi.mutex.Lock()
	process := pi.process
	waitErr := pi.waitErr
	pi.process = nil
	pi.mutex.Unlock()

	if process == nil {
		return
	}
	_ = process.Signal(os.Interrupt)
	select {
	case <-waitErr:
	case <-time.After(5 * time.Second):
		logger.Warnf("Process %s did not exit, killing", pi.Title)
		_ = process.Kill()
		<-waitErr
	}
	logger.Infof("Stopped temporary process %s", pi.Title)
}
