package main

import (
	"fmt"
	"os"
	"os/exec"
)

// runPassthrough 直接把子行程接到目前的終端跑完。
// Ctrl+C 會一起送給子行程（同一個 process group），這裡不另外攔。
func runPassthrough(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("%s failed: %v", name, err))
		os.Exit(1)
	}
}

// runSvr : dev mode で分析サーバを起動（/dev パネル有効）。
func runSvr() {
	PrintGreen("starting analysis server (dev mode)")
	runPassthrough("go", "run", "./cmd/svr", "-mode", "dev")
}

// runReport : hall.yaml でテキストレポートを標準出力に出す。
func runReport() {
	PrintGreen("running report")
	runPassthrough("go", "run", "./cmd/report", "-format", "text")
}
