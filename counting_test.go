package dataset

import (
	"iter"

	"github.com/leengari/dataset/engine"
)

// countingEngine wraps an engine and counts the calls that reach it
type countingEngine struct {
	engine.Engine
	executes int
	queries  int
}

func (c *countingEngine) Execute(stmt engine.Statement) (engine.Result, error) {
	c.executes++
	return c.Engine.Execute(stmt)
}

func (c *countingEngine) Query(stmt engine.Statement) iter.Seq2[engine.Row, error] {
	c.queries++
	return c.Engine.Query(stmt)
}
