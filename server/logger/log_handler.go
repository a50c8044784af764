// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger 組裝本服務的 slog stack。
//
// 兩種注入方式：
//   - NewDefaultLogger / NewAsync：依 LogMode 給預設 handler，最常用。
//   - NewLogger(h)：呼叫端自行組 slog.Handler（JSON/Text/ReplaceAttr/LevelVar），
//     要與外部既有 slog 整合時走這裡。
//
// AsyncHandler 可把任何 slog.Handler 包成非阻塞 handler，
// 請求路徑只做 enqueue，寫出交給背景 goroutine。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

// NewDefaultLogger 依 LogMode 組同步 *slog.Logger。
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewLogger 把呼叫端自組的 Handler 包成 *slog.Logger。nil 時退回 ModeDev 預設。
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

// NewAsync 依 LogMode 組 handler 後包上 AsyncHandler。
// 回傳 *AsyncHandler 是為了讓呼叫端在 shutdown 時 Close() drain 緩衝。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode), buf)
	return slog.New(ah), ah
}

// AsyncHandler 是 slog.Handler wrapper：
//   - Handle 只做 enqueue，不等 I/O。
//   - 背景 goroutine 逐筆呼叫 next.Handle 寫出。
//   - 隊列滿時丟棄該筆並累計 Dropped，不把寫出延遲帶回請求路徑。
//
// slog.Logger 會忽略 Handler.Handle 回傳的 error；
// 要處理 I/O 錯誤得在 next handler 內自行包裝。
type AsyncHandler struct {
	next slog.Handler
	p    *pump
}

// pump 由同一組 AsyncHandler（含 WithAttrs / WithGroup 衍生者）共享，
// 所以 Close 一次就停掉整組。
type pump struct {
	ch     chan job
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	dropped atomic.Uint64
}

type job struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler 把 next 包成非阻塞 handler。
// buf 是隊列長度；越大越不易 drop，但佔記憶體也拖長 shutdown drain。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}

	p := &pump{
		ch:     make(chan job, buf),
		closed: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.worker()

	return &AsyncHandler{next: next, p: p}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.p != nil
}

// Dropped 回傳因隊列滿被丟棄的筆數。
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.p == nil {
		return 0
	}
	return h.p.dropped.Load()
}

// Close 停止背景 worker 並 drain 殘餘緩衝。
// 不屬於 slog.Handler 介面；只有持有 *AsyncHandler 的組裝端能呼叫。
func (h *AsyncHandler) Close() {
	if h == nil || h.p == nil {
		return
	}
	h.p.once.Do(func() { close(h.p.closed) })
	h.p.wg.Wait()
}

func (p *pump) worker() {
	defer p.wg.Done()

	for {
		select {
		case j := <-p.ch:
			if j.h != nil {
				_ = j.h.Handle(j.ctx, j.rec)
			}
		case <-p.closed:
			// drain 到隊列空為止
			for {
				select {
				case j := <-p.ch:
					if j.h != nil {
						_ = j.h.Handle(j.ctx, j.rec)
					}
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h == nil || h.p == nil {
		return nil
	}

	// Close 之後不收新 log
	select {
	case <-h.p.closed:
		h.p.dropped.Add(1)
		return nil
	default:
	}

	// Clone 複製 attributes，Record 的內部引用跨 goroutine 前必須複製
	j := job{ctx: ctx, rec: r.Clone(), h: h.next}

	select {
	case h.p.ch <- j:
		return nil
	default:
		h.p.dropped.Add(1)
		return nil
	}
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), p: h.p}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), p: h.p}
}

func buildHandler(mode LogMode) slog.Handler {
	switch mode {
	case ModeDev:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	case ModeProd:
		// 正式環境：JSON + stdout，給 Loki / Promtail
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
