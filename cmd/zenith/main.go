package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/avolkov/zenith/internal/evalbuilder"
	"github.com/avolkov/zenith/pkg/common"
	"github.com/avolkov/zenith/pkg/engine"
	classical "github.com/avolkov/zenith/pkg/eval/classical"
	"github.com/avolkov/zenith/pkg/uci"
)

const (
	name   = "Zenith"
	author = "Zenith authors"
)

var (
	versionName = "dev"
	flgEval     string
)

func main() {
	flag.StringVar(&flgEval, "eval", "", "specifies evaluation function")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	logger.Println(name,
		"VersionName", versionName,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
		"NumCPU", runtime.NumCPU(),
	)

	var eng = engine.NewEngine(evalbuilder.Get(flgEval))

	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 4, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
			&uci.IntOption{Name: "MultiPV", Min: 1, Max: 64, Value: &eng.Options.MultiPV},
			&uci.BoolOption{Name: "ExperimentSettings", Value: &eng.Options.ExperimentSettings},
		},
	)
	protocol.SetTracer(func(p *common.Position) string {
		return classical.NewEvaluationService().Trace(p)
	})
	protocol.Run(logger)
}
