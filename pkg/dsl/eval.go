// Package dsl 提供基于 CEL (Common Expression Language) 的规则表达式，用于风险分级规则。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/riskit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("cluster", cel.IntType),
		cel.Variable("record", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("sctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的规则表达式，可并发多次求值。
//
// 表达式语法（CEL 标准语法）：
//   - 聚类：cluster in [3, 4] / cluster == 2
//   - 字段：record.CLAIM_PAID > 1000.0 / record.USAGE == "CARGA"
//   - 标签：label.preprocess == "v3"
//   - 存在性：has(record.CCM_TON) / record.CCM_TON != null
//   - 运行参数：sctx.params.region == "north"
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；语法或类型错误在此返回。空表达式恒为 true。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	if expr == "" {
		expr = "true"
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile %q: expression must return bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对客户求值，返回布尔结果。
// 访问记录中不存在的字段会返回错误，需要时请先用 has() 判断。
func (p *Program) Eval(c *core.Client, sctx *core.ScoreContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(c, sctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式。
func Evaluate(expr string, c *core.Client, sctx *core.ScoreContext) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(c, sctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Client, sctx *core.ScoreContext) map[string]any {
	labels := make(map[string]any, len(c.Labels))
	for k, v := range c.Labels {
		labels[k] = v.Value
	}

	ctx := map[string]any{}
	if sctx != nil {
		ctx["run_id"] = sctx.RunID
		ctx["source"] = sctx.Source
		if sctx.Params != nil {
			ctx["params"] = sctx.Params
		} else {
			ctx["params"] = map[string]any{}
		}
	}

	return map[string]any{
		"cluster": int64(c.Cluster),
		"record":  c.Record.Map(),
		"label":   labels,
		"sctx":    ctx,
	}
}
