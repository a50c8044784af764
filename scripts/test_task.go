package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// cleanTestCache 對應 Makefile 的 @go clean -testcache。
// fatal 為 false 時失敗不中斷（快速測試容許 cache 清不掉）。
func cleanTestCache(fatal bool) {
	cmd := exec.Command("go", "clean", "-testcache")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		if fatal {
			os.Exit(1)
		}
	}
}

// pipeGoTest 跑 go test，stderr 合流到 stdout（= shell 的 2>&1），
// 每行交給 filter 決定印不印、用什麼顏色。
func pipeGoTest(filter func(line string), args ...string) {
	cmd := exec.Command("go", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(fmt.Sprintf("stdout pipe: %v", err))
		os.Exit(1)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("start go test: %v", err))
		os.Exit(1)
	}
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		filter(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}

// runTest : 快速測試。
// go test ./... -cover -count=1 2>&1 | grep -E '^(ok|FAIL)' 相当。
func runTest() {
	PrintGreen("running tests")
	cleanTestCache(false)

	pipeGoTest(func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		case strings.Contains(line, "build failed") || strings.Contains(line, "setup failed"):
			// grep 過濾太乾淨會看不出編譯為什麼掛，這兩種關鍵字保留
			PrintRed(line)
		}
	}, "test", "./...", "-cover", "-count=1")
}

// runTestAll : 全套件 + coverage，輸出不過濾。
func runTestAll() {
	PrintGreen("running tests (all with coverage)")
	cleanTestCache(true)

	cmd := exec.Command("go", "test", "./...", "-cover")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed("\nTests (with coverage) finished with errors\n")
		os.Exit(1)
	}
}

// runTestDetail : verbose 測試。
// grep -v '[no test files]' 相当の除外だけ掛ける。
func runTestDetail() {
	PrintGreen("running tests (detail)")
	cleanTestCache(true)

	pipeGoTest(func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}, "test", "./...", "-v", "-count=1")
}
