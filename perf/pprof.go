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

// Package perf 是 runtime/pprof 的薄封裝，給 CLI 入口掛 profiling 用。
// 產出的 cpu.pprof 也可當構建時 PGO 的 blueprint。
package perf

import (
	"os"
	"runtime"
	"runtime/pprof"
)

const pprofDir = "build/profiling" // pprof檔案寫入路徑

// RunPProf 依 mode 執行 exe 並寫出對應 profile。
// mode：""（直接執行）、cpu、heap、allocs。未知值視同 ""。
//
// Usage like:
//
//	go run ./cmd/report -p cpu
func RunPProf(exe func(), mode string) {
	switch mode {
	case "cpu":
		f := profileFile("cpu")
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("failed to start cpu profile : " + err.Error())
		}
		defer pprof.StopCPUProfile()
		exe()
	case "heap":
		exe()
		// 快照前先回收一次，貼近 live objects
		runtime.GC()
		f := profileFile("heap")
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("failed to write heap profile : " + err.Error())
		}
	case "allocs":
		exe()
		f := profileFile("allocs")
		defer f.Close()
		if prof := pprof.Lookup("allocs"); prof != nil {
			if err := prof.WriteTo(f, 0); err != nil {
				panic("failed to write allocs profile : " + err.Error())
			}
		}
	default:
		exe()
	}
}

func profileFile(name string) *os.File {
	_ = os.MkdirAll(pprofDir, 0o755)
	f, err := os.Create(pprofDir + "/" + name + ".pprof")
	if err != nil {
		panic("failed to create " + name + ".pprof : " + err.Error())
	}
	return f
}
