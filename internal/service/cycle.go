package service

import (
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

type dfsFrame struct {
	id     uuid.UUID
	parent uuid.UUID
	next   int
}

// CycleDetector finds cycles in the directed support graph, where A -> B iff B is in
// A's supports. Traversal is iterative with an explicit frame stack, so depth is
// bounded by memory rather than the goroutine stack.
type CycleDetector struct {
	logger *zap.Logger

	// SkipMirrorEdges ignores the edge straight back to the DFS parent. Support edges
	// are stored symmetrically, so with this off every supported pair is a two-node
	// cycle.
	SkipMirrorEdges bool
}

func NewCycleDetector(logger *zap.Logger) *CycleDetector {
	return &CycleDetector{logger: logger}
}

// Detect returns the ids of every proposition that lies on a detected cycle, each
// once, in the order they were first found. The knowledge base is not modified.
func (d *CycleDetector) Detect(kb domain.KnowledgeBase) []uuid.UUID {
	if kb == nil {
		return nil
	}
	all := kb.All()
	nodes := make(map[uuid.UUID]*domain.Proposition, len(all))
	for _, p := range all {
		nodes[p.ID] = p
	}

	state := make(map[uuid.UUID]visitState, len(all))
	stackPos := make(map[uuid.UUID]int)
	inCycle := make(map[uuid.UUID]struct{})
	var found []uuid.UUID

	for _, start := range all {
		if state[start.ID] != unvisited {
			continue
		}

		stack := []dfsFrame{{id: start.ID}}
		state[start.ID] = inProgress
		stackPos[start.ID] = 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			supports := nodes[top.id].Epistemic.Supports

			if top.next >= len(supports) {
				state[top.id] = done
				delete(stackPos, top.id)
				stack = stack[:len(stack)-1]
				continue
			}

			next := supports[top.next]
			top.next++
			if _, ok := nodes[next]; !ok {
				continue
			}

			switch state[next] {
			case unvisited:
				state[next] = inProgress
				stackPos[next] = len(stack)
				stack = append(stack, dfsFrame{id: next, parent: top.id})
			case inProgress:
				if d.SkipMirrorEdges && next == top.parent {
					continue
				}
				d.logger.Debug("support cycle found",
					zap.String("entry_id", next.String()),
					zap.Int("length", len(stack)-stackPos[next]))
				for _, f := range stack[stackPos[next]:] {
					if _, ok := inCycle[f.id]; ok {
						continue
					}
					inCycle[f.id] = struct{}{}
					found = append(found, f.id)
				}
			}
		}
	}
	return found
}

// Apply flags every listed proposition with CIRCULAR_SUPPORT and returns how many
// were newly flagged.
func (d *CycleDetector) Apply(kb domain.KnowledgeBase, ids []uuid.UUID) int {
	flagged := 0
	for _, id := range ids {
		p, err := kb.GetByID(id)
		if err != nil {
			continue
		}
		if p.Epistemic.AddFlag(domain.FlagCircularSupport) {
			flagged++
		}
	}
	return flagged
}
