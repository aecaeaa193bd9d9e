// Package evalbuilder constructs evaluation services by name so the binary
// can switch evaluators from the command line.
package evalbuilder

import (
	"fmt"

	"github.com/avolkov/zenith/pkg/engine"
	classical "github.com/avolkov/zenith/pkg/eval/classical"
	"github.com/avolkov/zenith/pkg/eval/hybrid"
)

func Get(name string) func() engine.Evaluator {
	switch name {
	case "", "classical":
		return func() engine.Evaluator {
			return classical.NewEvaluationService()
		}
	case "hybrid":
		// No network loader is wired in this build; the wrapper degrades to
		// the classical path until one is injected.
		return func() engine.Evaluator {
			return hybrid.NewEvaluationService(nil)
		}
	}
	panic(fmt.Errorf("unknown evaluation service %q", name))
}
