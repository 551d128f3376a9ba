package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
)

// 调度器返回的哨兵错误。
var (
	// ErrInternalStage 表示调用方直接要求或查询了汇合阶段。
	ErrInternalStage = errors.New("workflow: internal stage cannot be addressed directly")

	// ErrUnknownStage 表示阶段不在图中。
	ErrUnknownStage = errors.New("workflow: unknown stage")

	// ErrStalled 表示仍有待执行阶段，但没有一个可以执行。
	ErrStalled = errors.New("workflow: no executable stage")
)

// MaxStages 是 Model 掩码可用的位数。
const MaxStages = 32

// Stage 是流水线阶段的位下标，第 0 位是最下游的阶段。
type Stage uint8

// Def 声明流水线中的一个阶段。
type Def struct {
	Stage    Stage
	Name     string
	Upstream []Stage
	// Internal 标记只用于等待多个前驱的汇合阶段。
	Internal bool
}

type node struct {
	def        Def
	defined    bool
	upstream   uint32
	downstream uint32
	// closure 记录所有传递下游的位，不含自身
	closure uint32
}

// Graph 是命名阶段组成的不可变依赖 DAG。
type Graph struct {
	nodes [MaxStages]node
	all   uint32
}

// NewGraph 由阶段定义构建依赖图。
// 上游阶段的位必须高于下游，从高位向低位扫描时总是先访问依赖。
func NewGraph(defs ...Def) (*Graph, error) {
	g := &Graph{}
	for _, d := range defs {
		if int(d.Stage) >= MaxStages {
			return nil, fmt.Errorf("stage %q: bit %d out of range", d.Name, d.Stage)
		}
		n := &g.nodes[d.Stage]
		if n.defined {
			return nil, fmt.Errorf("stage %q: bit %d already used by %q", d.Name, d.Stage, n.def.Name)
		}
		n.def = d
		n.defined = true
		g.all |= 1 << d.Stage
	}
	for _, d := range defs {
		for _, up := range d.Upstream {
			if g.all&(1<<up) == 0 {
				return nil, fmt.Errorf("stage %q: upstream bit %d: %w", d.Name, up, ErrUnknownStage)
			}
			if up <= d.Stage {
				return nil, fmt.Errorf("stage %q: upstream %q must be on a higher bit", d.Name, g.nodes[up].def.Name)
			}
			g.nodes[d.Stage].upstream |= 1 << up
			g.nodes[up].downstream |= 1 << d.Stage
		}
	}
	// 下游的位总是更低，从第 0 位向上计算时后继的 closure 已经就绪
	for s := 0; s < MaxStages; s++ {
		n := &g.nodes[s]
		if !n.defined {
			continue
		}
		for rest := n.downstream; rest != 0; rest &= rest - 1 {
			d := bits.TrailingZeros32(rest)
			n.closure |= 1<<d | g.nodes[d].closure
		}
	}
	return g, nil
}

// MustGraph 与 NewGraph 相同，定义非法时 panic。
func MustGraph(defs ...Def) *Graph {
	g, err := NewGraph(defs...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name 返回阶段名，未定义的位返回 "#n"。
func (g *Graph) Name(s Stage) string {
	if int(s) < MaxStages && g.nodes[s].defined {
		return g.nodes[s].def.Name
	}
	return fmt.Sprintf("#%d", s)
}

// Upstream 以掩码形式返回 s 的直接上游。
func (g *Graph) Upstream(s Stage) uint32 { return g.nodes[s].upstream }

// Downstream 以掩码形式返回 s 的全部传递下游。
func (g *Graph) Downstream(s Stage) uint32 { return g.nodes[s].closure }

func (g *Graph) lookup(s Stage) (*node, error) {
	if int(s) >= MaxStages || !g.nodes[s].defined {
		return nil, fmt.Errorf("bit %d: %w", s, ErrUnknownStage)
	}
	n := &g.nodes[s]
	if n.def.Internal {
		return nil, fmt.Errorf("%s: %w", n.def.Name, ErrInternalStage)
	}
	return n, nil
}

// Model 记录 Graph 中哪些阶段需要（重新）执行。
// 不支持并发使用，由所属引擎在单个 goroutine 中驱动。
type Model struct {
	graph *Graph
	mask  uint32
	log   *slog.Logger
}

// NewModel 返回只要求初始阶段的模型。
func NewModel(g *Graph, initial Stage, log *slog.Logger) *Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Model{graph: g, mask: 1 << initial, log: log}
}

// Graph 返回模型的依赖图。
func (m *Model) Graph() *Graph { return m.graph }

// Mask 返回原始的待执行位掩码。
func (m *Model) Mask() uint32 { return m.mask }

// Idle 报告是否没有待执行阶段。
func (m *Model) Idle() bool { return m.mask == 0 }

// Require 标记 s 及其全部下游阶段。
func (m *Model) Require(s Stage) error {
	n, err := m.graph.lookup(s)
	if err != nil {
		return err
	}
	m.mask |= 1<<s | n.closure
	return nil
}

// RequireOnly 只标记 s，仅用于重做 s 不会使下游结果失效的情形。
func (m *Model) RequireOnly(s Stage) error {
	if _, err := m.graph.lookup(s); err != nil {
		return err
	}
	m.mask |= 1 << s
	return nil
}

// IsRequired 报告 s 是否待执行。
func (m *Model) IsRequired(s Stage) (bool, error) {
	if _, err := m.graph.lookup(s); err != nil {
		return false, err
	}
	return m.mask&(1<<s) != 0, nil
}

// Executable 报告 s 待执行且直接上游均已完成。
func (m *Model) Executable(s Stage) bool {
	if int(s) >= MaxStages || !m.graph.nodes[s].defined {
		return false
	}
	return m.mask&(1<<s) != 0 && m.mask&m.graph.nodes[s].upstream == 0
}

// Complete 只清除 s 自己的位。
func (m *Model) Complete(s Stage) {
	m.mask &^= 1 << s
}

// Next 返回最上游的可执行阶段。
func (m *Model) Next() (Stage, bool) {
	for rest := m.mask; rest != 0; {
		s := Stage(31 - bits.LeadingZeros32(rest))
		if m.Executable(s) {
			return s, true
		}
		rest &^= 1 << s
	}
	return 0, false
}

// Drive 从上游开始逐个执行可执行阶段，直到掩码清空或用完 budget 步，budget <= 0 表示不限。
// 执行失败的阶段保留其位。
func (m *Model) Drive(budget int, run func(Stage) error) (int, error) {
	steps := 0
	for m.mask != 0 {
		if budget > 0 && steps >= budget {
			break
		}
		s, ok := m.Next()
		if !ok {
			return steps, fmt.Errorf("mask %#x: %w", m.mask, ErrStalled)
		}
		m.log.Debug("workflow: run stage", "stage", m.graph.Name(s), "mask", m.mask)
		if err := run(s); err != nil {
			return steps, fmt.Errorf("stage %s: %w", m.graph.Name(s), err)
		}
		m.Complete(s)
		steps++
	}
	return steps, nil
}
