package risk

import (
	"context"
	"fmt"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/dsl"
)

// Rule 是一条分级规则：表达式为 true 时给出 Level。
type Rule struct {
	Name  string `yaml:"name" json:"name"`
	Expr  string `yaml:"expr" json:"expr"`
	Level Level  `yaml:"level" json:"level"`
}

type compiledRule struct {
	Rule
	prg *dsl.Program
}

// RuleClassifier 按顺序执行 CEL 规则，第一条为 true 的规则决定等级；都不命中时取 Default。
//
// 示例：
//
//	rules:
//	  - {name: high_clusters, expr: "cluster in [3, 4]", level: Very High}
//	  - {name: large_claims, expr: "cluster == 2 && record.CLAIM_PAID > 1000.0", level: Very High}
type RuleClassifier struct {
	Default Level
	rules   []compiledRule
}

// NewRuleClassifier 编译全部规则；表达式错误在构建时返回。
func NewRuleClassifier(rules []Rule, def Level) (*RuleClassifier, error) {
	if def == "" {
		def = Normal
	}
	rc := &RuleClassifier{Default: def, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Level == "" {
			return nil, core.NewDomainError(core.ModuleRisk, core.ErrorCodeInvalidInput,
				fmt.Sprintf("risk: rule %d has no level", i))
		}
		if r.Name == "" {
			r.Name = fmt.Sprintf("rule_%d", i)
		}
		prg, err := dsl.Compile(r.Expr)
		if err != nil {
			return nil, fmt.Errorf("risk: rule %s: %w", r.Name, err)
		}
		rc.rules = append(rc.rules, compiledRule{Rule: r, prg: prg})
	}
	return rc, nil
}

func (rc *RuleClassifier) Name() string { return "rules" }

// Rules 返回规则列表（按执行顺序）。
func (rc *RuleClassifier) Rules() []Rule {
	out := make([]Rule, len(rc.rules))
	for i, r := range rc.rules {
		out[i] = r.Rule
	}
	return out
}

func (rc *RuleClassifier) Classify(_ context.Context, sctx *core.ScoreContext, c *core.Client) (Decision, error) {
	for _, r := range rc.rules {
		ok, err := r.prg.Eval(c, sctx)
		if err != nil {
			return Decision{}, fmt.Errorf("risk: rule %s: %w", r.Name, err)
		}
		if ok {
			return Decision{Level: r.Level, Reason: r.Name}, nil
		}
	}
	return Decision{Level: rc.Default, Reason: "default"}, nil
}
