package dsl

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

// ErrUnknownExpression is returned by [Unmarshal] for a node whose type tag
// is not recognized.
var ErrUnknownExpression = errors.New("unknown expression type")

// Type tags used in the JSON encoding.
const (
	TypeProbability    = "probability"
	TypeSum            = "sum"
	TypeProduct        = "product"
	TypeOne            = "one"
	TypeUnidentifiable = "unidentifiable"
)

// node is the JSON shape of one expression tree node. Only the fields
// relevant to Type are set.
type node struct {
	Type       string           `json:"type"`
	Children   []graph.Variable `json:"children,omitempty"`
	Parents    []graph.Variable `json:"parents,omitempty"`
	Ranges     []graph.Variable `json:"ranges,omitempty"`
	Expression *node            `json:"expression,omitempty"`
	Factors    []*node          `json:"factors,omitempty"`
	Nodes      []graph.Variable `json:"nodes,omitempty"`
}

// Marshal encodes an expression tree as JSON:
//
//	{"type":"sum","ranges":["M"],"expression":{"type":"product","factors":[...]}}
//
// Sets are written in sorted order, so equal expressions encode to equal
// bytes.
func Marshal(e Expression) ([]byte, error) {
	n, err := toNode(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// Unmarshal decodes an expression written by [Marshal].
func Unmarshal(data []byte) (Expression, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	return fromNode(&n)
}

func toNode(e Expression) (*node, error) {
	switch x := e.(type) {
	case Probability:
		return &node{Type: TypeProbability, Children: x.Children, Parents: x.Parents}, nil
	case Sum:
		inner, err := toNode(x.Expression)
		if err != nil {
			return nil, err
		}
		return &node{Type: TypeSum, Ranges: x.Ranges.Sorted(), Expression: inner}, nil
	case Product:
		factors := make([]*node, len(x.Factors))
		for i, f := range x.Factors {
			n, err := toNode(f)
			if err != nil {
				return nil, err
			}
			factors[i] = n
		}
		return &node{Type: TypeProduct, Factors: factors}, nil
	case One:
		return &node{Type: TypeOne}, nil
	case Unidentifiable:
		return &node{Type: TypeUnidentifiable, Nodes: x.Nodes.Sorted()}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownExpression, e)
}

func fromNode(n *node) (Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: missing node", ErrUnknownExpression)
	}
	switch n.Type {
	case TypeProbability:
		if len(n.Children) == 0 {
			return nil, errors.New("decode expression: probability without children")
		}
		return Probability{Children: n.Children, Parents: n.Parents}, nil
	case TypeSum:
		inner, err := fromNode(n.Expression)
		if err != nil {
			return nil, err
		}
		return Sum{Expression: inner, Ranges: graph.NewSet(n.Ranges...)}, nil
	case TypeProduct:
		factors := make([]Expression, len(n.Factors))
		for i, f := range n.Factors {
			e, err := fromNode(f)
			if err != nil {
				return nil, err
			}
			factors[i] = e
		}
		return Product{Factors: factors}, nil
	case TypeOne:
		return One{}, nil
	case TypeUnidentifiable:
		return Unidentifiable{Nodes: graph.NewSet(n.Nodes...)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExpression, n.Type)
}
