package main

import "github.com/kg112500/dynam-hikone/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeReport, cfg.pprofmode)
}
