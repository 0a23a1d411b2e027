package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ajxudir/pacwatch/pkg/packages"
)

// whenEnv returns the variables visible to a when-condition.
func whenEnv(u packages.Update) map[string]any {
	return map[string]any{
		"name":      u.Name,
		"old":       u.Old,
		"new":       u.New,
		"component": string(u.Component),
	}
}

func compileWhen(condition string) (*vm.Program, error) {
	program, err := expr.Compile(condition, expr.Env(whenEnv(packages.Update{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition %q: %w", condition, err)
	}
	return program, nil
}

func runWhen(program *vm.Program, u packages.Update) (bool, error) {
	output, err := expr.Run(program, whenEnv(u))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition: %w", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T, expected bool", output)
	}
	return result, nil
}
