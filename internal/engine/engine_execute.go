package engine

import (
	"fmt"

	"raDB/internal/logger"
	"raDB/internal/ra"
	"raDB/internal/storage"
)

// evaluator walks one expression tree bottom-up against a snapshot.
type evaluator struct {
	snap storage.Snapshot
	log  *logger.Logger
}

func (ev *evaluator) eval(expr ra.Expr) (*ra.Relation, error) {
	switch x := expr.(type) {
	case *ra.RelationRef:
		return ev.lookup(x.Name)

	case *ra.SelectExpr:
		in, err := ev.eval(x.Input)
		if err != nil {
			return nil, err
		}
		rows := selectRows(in, x.Cond, ev.log)
		return ra.NewRelation(in.Name, in.Columns, rows), nil

	case *ra.ProjectExpr:
		in, err := ev.eval(x.Input)
		if err != nil {
			return nil, err
		}
		return projectColumns(in, x.Attributes)

	case *ra.JoinExpr:
		ev.log.Debug("evaluating join", "left", x.Left, "right", x.Right, "condition", x.Cond.String())
		left, right, err := ev.operands(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		return joinRelations(left, right, x.Cond, ev.log), nil

	case *ra.SetExpr:
		ev.log.Debug("computing "+x.Op.String(), "left", x.Left, "right", x.Right)
		left, right, err := ev.operands(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		return setOperation(x.Op, left, right)

	default:
		return nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

func (ev *evaluator) lookup(name string) (*ra.Relation, error) {
	rel, ok := ev.snap.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	return rel, nil
}

// operands resolves the two relation names of a join or set operation.
// These operators take stored relations only, never sub-results.
func (ev *evaluator) operands(leftName, rightName string) (*ra.Relation, *ra.Relation, error) {
	left, err := ev.lookup(leftName)
	if err != nil {
		return nil, nil, err
	}
	right, err := ev.lookup(rightName)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
