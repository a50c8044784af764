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

// 開發用 task runner，代替 Makefile（Windows 環境也能直接跑）。
//
// Usage: go run ./scripts [task]
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [task]")
		fmt.Println("  test         快速測試（ok / FAIL 行だけ）")
		fmt.Println("  test-all     全套件 + coverage")
		fmt.Println("  test-detail  verbose（[no test files] は除外）")
		fmt.Println("  svr          dev mode で分析サーバを起動")
		fmt.Println("  report       サンプル設定でレポートを出力")
		os.Exit(1)
	}
	selectTask(os.Args[1])
}

func selectTask(task string) {
	switch task {
	case "test":
		runTest()
	case "test-all":
		runTestAll()
	case "test-detail":
		runTestDetail()
	case "svr":
		runSvr()
	case "report":
		runReport()
	default:
		PrintYellow(fmt.Sprintf("Unknown task: %s\n", task))
		os.Exit(1)
	}
}
