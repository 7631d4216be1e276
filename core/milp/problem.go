// Package milp represents a mixed-integer linear program as an explicit value
// object. The model builder constructs a Problem once and passes it forward;
// there is no process-wide model state. Solver backends translate the Problem
// into their own representation without mutating it.
package milp

import (
	"fmt"
	"math"
)

// VarKind restricts the domain of a decision variable.
type VarKind int

const (
	// Binary variables take values in {0, 1}.
	Binary VarKind = iota
	// Integer variables take integer values within their bounds.
	Integer
	// Continuous variables take real values within their bounds.
	Continuous
)

func (k VarKind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("varkind(%d)", int(k))
}

// Var is a reference to a decision variable in a Problem.
type Var struct {
	Index int
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Term is a single coefficient*variable entry of a linear expression.
type Term struct {
	Var   int
	Coeff float64
}

// LinearExpr is a linear combination of variables plus a constant offset.
type LinearExpr struct {
	Terms  []Term
	Offset float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr { return &LinearExpr{} }

// Add adds the variable with coefficient 1 and returns the expression.
func (e *LinearExpr) Add(v Var) *LinearExpr { return e.AddTerm(v, 1) }

// AddTerm adds the variable with the given coefficient and returns the
// expression.
func (e *LinearExpr) AddTerm(v Var, coeff float64) *LinearExpr {
	e.Terms = append(e.Terms, Term{Var: v.Index, Coeff: coeff})
	return e
}

// AddConstant adds a constant to the expression and returns it.
func (e *LinearExpr) AddConstant(c float64) *LinearExpr {
	e.Offset += c
	return e
}

// AddSum adds all variables with coefficient 1 and returns the expression.
func (e *LinearExpr) AddSum(vars ...Var) *LinearExpr {
	for _, v := range vars {
		e.Add(v)
	}
	return e
}

// Evaluate computes the expression value for the given variable assignment,
// indexed by variable index.
func (e *LinearExpr) Evaluate(values []float64) float64 {
	result := e.Offset
	for _, t := range e.Terms {
		result += t.Coeff * values[t.Var]
	}
	return result
}

// Constraint bounds a linear expression to the inclusive range [Lower, Upper].
// Equalities set Lower == Upper; one-sided constraints use ±Inf. Class and
// Name carry diagnostic detail so failures can be traced to the originating
// constraint family and group/student.
type Constraint struct {
	Name  string
	Class string
	Expr  LinearExpr
	Lower float64
	Upper float64
}

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// Problem is a complete MILP: variables, linear range constraints and a
// linear objective. It is immutable once built.
type Problem struct {
	Name        string
	Vars        []Var
	Constraints []Constraint
	Objective   LinearExpr
	Sense       Sense
}

// Builder incrementally assembles a Problem.
type Builder struct {
	problem Problem
}

// NewBuilder returns an empty Builder for the named problem.
func NewBuilder(name string) *Builder {
	return &Builder{problem: Problem{Name: name}}
}

// NewBinaryVar adds a binary decision variable.
func (b *Builder) NewBinaryVar(name string) Var {
	return b.newVar(name, Binary, 0, 1)
}

// NewIntVar adds an integer decision variable with inclusive bounds.
func (b *Builder) NewIntVar(name string, lower, upper float64) Var {
	return b.newVar(name, Integer, lower, upper)
}

// NewContinuousVar adds a continuous decision variable with inclusive bounds.
func (b *Builder) NewContinuousVar(name string, lower, upper float64) Var {
	return b.newVar(name, Continuous, lower, upper)
}

func (b *Builder) newVar(name string, kind VarKind, lower, upper float64) Var {
	v := Var{Index: len(b.problem.Vars), Name: name, Kind: kind, Lower: lower, Upper: upper}
	b.problem.Vars = append(b.problem.Vars, v)
	return v
}

// AddConstraint bounds expr to [lower, upper].
func (b *Builder) AddConstraint(class, name string, expr *LinearExpr, lower, upper float64) {
	b.problem.Constraints = append(b.problem.Constraints, Constraint{
		Name:  name,
		Class: class,
		Expr:  *expr,
		Lower: lower,
		Upper: upper,
	})
}

// AddEquality adds the constraint expr == value.
func (b *Builder) AddEquality(class, name string, expr *LinearExpr, value float64) {
	b.AddConstraint(class, name, expr, value, value)
}

// AddAtLeast adds the constraint expr >= value.
func (b *Builder) AddAtLeast(class, name string, expr *LinearExpr, value float64) {
	b.AddConstraint(class, name, expr, value, math.Inf(1))
}

// AddAtMost adds the constraint expr <= value.
func (b *Builder) AddAtMost(class, name string, expr *LinearExpr, value float64) {
	b.AddConstraint(class, name, expr, math.Inf(-1), value)
}

// Maximize sets the objective to maximize expr.
func (b *Builder) Maximize(expr *LinearExpr) {
	b.problem.Objective = *expr
	b.problem.Sense = Maximize
}

// Minimize sets the objective to minimize expr.
func (b *Builder) Minimize(expr *LinearExpr) {
	b.problem.Objective = *expr
	b.problem.Sense = Minimize
}

// Problem returns the assembled problem.
func (b *Builder) Problem() Problem { return b.problem }
