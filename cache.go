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

package hikone

import (
	"context"
	"sync"
	"time"
)

// Cache 是單值 TTL 快取：過期或被 Invalidate 後的下一次 Get 重新載入。
//
// 併發語意：載入期間持鎖，同時打進來的請求等同一次載入完成後共用結果
// （single-flight）。載入失敗不快取，錯誤直接回給當次呼叫端，
// 下一次互動自然重試，這裡不做自動 retry。
type Cache[T any] struct {
	mu   sync.Mutex
	ttl  time.Duration
	load func(ctx context.Context) (T, error)

	val    T
	at     time.Time
	loaded bool

	now func() time.Time // 測試替換用
}

// NewCache 建立快取。ttl <= 0 表示永不過期（只能靠 Invalidate 重載）。
func NewCache[T any](ttl time.Duration, load func(ctx context.Context) (T, error)) *Cache[T] {
	return &Cache[T]{ttl: ttl, load: load, now: time.Now}
}

// Get 回傳快取值，必要時先重載。
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && (c.ttl <= 0 || c.now().Sub(c.at) < c.ttl) {
		return c.val, nil
	}

	v, err := c.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.val = v
	c.at = c.now()
	c.loaded = true
	return v, nil
}

// Invalidate 丟掉快取值，下一次 Get 必定重載。
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	var zero T
	c.val = zero
}

// CacheInfo 是快取の現況，dev panel 用。
type CacheInfo struct {
	Loaded   bool   `json:"Loaded"`
	LoadedAt string `json:"LoadedAt,omitempty"`
	Age      string `json:"Age,omitempty"`
	TTL      string `json:"TTL"`
}

func (c *Cache[T]) Info() CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := CacheInfo{Loaded: c.loaded, TTL: c.ttl.String()}
	if c.loaded {
		info.LoadedAt = c.at.Format(time.RFC3339)
		info.Age = c.now().Sub(c.at).Round(time.Second).String()
	}
	return info
}
