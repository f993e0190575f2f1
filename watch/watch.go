// Package watch 监听输入文件变化，去抖后串行触发重新罐装。
//
// 回调在监听循环所在的 goroutine 中执行，因此同一时间至多只有一次构建在进行，
// 这保证了 layout.Session 中每个文本框的 Fitter 不会被并发重入。
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed 表示文件系统监听器初始化失败。
var ErrWatcherFailed = errors.New("初始化文件监听失败")

// Func 在一批变化稳定后被调用，changed 为去重排序后的路径。
// 返回的错误只会被记录，不会终止监听。
type Func func(ctx context.Context, changed []string) error

// Watcher 监听一组文件。
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	log      *zap.Logger
}

// New 监听 paths 所在的目录并只关心这些文件本身，
// 这样编辑器以"写临时文件再改名"方式保存时也能收到事件。
func New(paths []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	w := &Watcher{
		fs:       fsw,
		files:    map[string]bool{},
		debounce: debounce,
		log:      log,
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("解析路径 %s 失败: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("监听目录 %s 失败: %w", dir, err)
		}
	}
	return w, nil
}

// Run 阻塞直到 ctx 结束，期间每批文件变化调用一次 fn。
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	events := make(chan fsnotify.Event)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(ev.Name)
				if err != nil || !w.files[abs] {
					continue
				}
				ev.Name = abs
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return Loop(ctx, events, w.fs.Errors, w.debounce, w.log, fn)
}

// Close 释放底层监听器。
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Loop 是去抖与串行化的核心：收到相关事件后等待 debounce 内没有新事件再调用 fn。
// events 关闭或 ctx 结束时返回；ctx 结束时返回 nil。
func Loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, log *zap.Logger, fn Func) error {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = time.Millisecond
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}

			log.Info("change detected, rebuilding", zap.Strings("files", changed))
			if err := fn(ctx, changed); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
