// Copyright the halo2-analyzer authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package smt provides the solver-facing half of the analyzer: an SMT-LIB v2
// printer targeting the finite-field logic (QF_FF), a parser for solver model
// responses, and a narrow gateway for submitting satisfiability queries to an
// external solver process.
package smt

import (
	"fmt"
	"math/big"
	"strings"
)

// TermKind tags a printed term with the expression variant that produced it.
// The tag matters because term-combination rules differ for atomic terms
// (variables and literals, which need no parentheses) and compound terms
// (operator applications, which do).
type TermKind int

const (
	// KindConstant is a field literal.
	KindConstant TermKind = iota
	// KindFixed is a fixed-cell reference or a resolved selector literal.
	KindFixed
	// KindAdvice is an advice-cell variable.
	KindAdvice
	// KindInstance is an instance-cell placeholder.
	KindInstance
	// KindNegated is a negation application.
	KindNegated
	// KindAdd is an addition application.
	KindAdd
	// KindMul is a multiplication application.
	KindMul
	// KindScaled is a scalar multiplication application.
	KindScaled
	// KindPoly is a fully assembled gate polynomial.
	KindPoly
)

// Atomic reports whether terms of this kind are self-delimiting and can be
// embedded in a larger term without parenthesization.
func (k TermKind) Atomic() bool {
	switch k {
	case KindConstant, KindFixed, KindAdvice, KindInstance:
		return true
	default:
		return false
	}
}

// RelOp is a relational operator between a term and a field value.
type RelOp int

const (
	// OpEq is equality.
	OpEq RelOp = iota
	// OpNeq is disequality.
	OpNeq
)

// Printer accumulates an SMT-LIB v2 script over a single prime-field sort F.
// The script is append-only: declarations, assertions and push/pop markers
// are written in order, and every query replays the whole script against a
// fresh solver process.  A popped scope therefore stays in the script text
// but contributes nothing to later queries.
type Printer struct {
	buf      strings.Builder
	prime    *big.Int
	vars     []string
	declared map[string]bool
}

// NewPrinter creates a printer for the field of the given prime order and
// writes the script preamble.
func NewPrinter(prime *big.Int) *Printer {
	p := &Printer{
		prime:    prime,
		declared: make(map[string]bool),
	}
	//
	p.writeln("(set-option :produce-models true)")
	p.writeln("(set-option :incremental true)")
	p.writeln("(set-logic QF_FF)")
	p.writeln("(define-sort F () (_ FiniteField %s))", prime.String())
	//
	return p
}

// Prime returns the field order the script is written against.
func (p *Printer) Prime() *big.Int {
	return p.prime
}

// Vars returns every variable declared so far, in declaration order.
func (p *Printer) Vars() []string {
	vars := make([]string, len(p.vars))
	copy(vars, p.vars)
	//
	return vars
}

// WriteVar declares a field variable, deduplicating repeated declarations.
func (p *Printer) WriteVar(name string) {
	if p.declared[name] {
		return
	}
	//
	p.declared[name] = true
	p.vars = append(p.vars, name)
	p.writeln("(declare-fun %s () F)", name)
}

// Literal renders a field literal for the given value, reduced into [0, p).
func (p *Printer) Literal(val *big.Int) string {
	reduced := new(big.Int).Mod(val, p.prime)
	return fmt.Sprintf("(as ff%s F)", reduced.String())
}

// LiteralString renders a field literal from a decimal string.  It fails on
// anything big.Int cannot parse in base 10.
func (p *Printer) LiteralString(val string) (string, error) {
	parsed, ok := new(big.Int).SetString(val, 10)
	if !ok {
		return "", fmt.Errorf("malformed field value %q", val)
	}
	//
	return p.Literal(parsed), nil
}

// WriteTerm combines two printed terms with a field operation ("add" or
// "mul"), parenthesizing compound operands.  An empty operand (the instance
// placeholder) is dropped, yielding the other operand unchanged.
func (p *Printer) WriteTerm(op string, left string, leftKind TermKind, right string, rightKind TermKind) string {
	if left == "" {
		return right
	}
	//
	if right == "" {
		return left
	}
	//
	return fmt.Sprintf("ff.%s %s %s", op, wrap(left, leftKind), wrap(right, rightKind))
}

// WriteNeg negates a printed term, parenthesizing compound arguments.
func (p *Printer) WriteNeg(term string, kind TermKind) string {
	if term == "" {
		return ""
	}
	//
	return fmt.Sprintf("ff.neg %s", wrap(term, kind))
}

// GetAssert builds (but does not write) a relational condition between a
// printed term and a field value given as a decimal string.
func (p *Printer) GetAssert(term string, value string, kind TermKind, op RelOp) (string, error) {
	literal, err := p.LiteralString(value)
	if err != nil {
		return "", err
	}
	//
	eq := fmt.Sprintf("(= %s %s)", wrap(term, kind), literal)
	if op == OpNeq {
		return fmt.Sprintf("(not %s)", eq), nil
	}
	//
	return eq, nil
}

// GetAnd builds the conjunction of zero or more conditions.
func (p *Printer) GetAnd(conds []string) string {
	return connect("and", "true", conds)
}

// GetOr builds the disjunction of zero or more conditions.
func (p *Printer) GetOr(conds []string) string {
	return connect("or", "false", conds)
}

// WriteAssert writes an assertion of the given Boolean condition.
func (p *Printer) WriteAssert(cond string) {
	p.writeln("(assert %s)", cond)
}

// AssertZero asserts that a printed term equals the zero of the field.
func (p *Printer) AssertZero(term string, kind TermKind) {
	if term == "" {
		return
	}
	//
	p.writeln("(assert (= %s (as ff0 F)))", wrap(term, kind))
}

// AssertCellsEqual asserts a copy constraint between two declared cells.
func (p *Printer) AssertCellsEqual(left string, right string) {
	p.writeln("(assert (= %s %s))", left, right)
}

// Push opens a backtrackable assertion scope.
func (p *Printer) Push() {
	p.writeln("(push 1)")
}

// Pop discards the most recently pushed scope.
func (p *Printer) Pop() {
	p.writeln("(pop 1)")
}

// Script returns the script accumulated so far.
func (p *Printer) Script() string {
	return p.buf.String()
}

// QueryScript returns the accumulated script followed by a satisfiability
// check and one value request per declared variable, ready for submission.
func (p *Printer) QueryScript() string {
	var footer strings.Builder
	//
	footer.WriteString(p.buf.String())
	footer.WriteString("(check-sat)\n")
	//
	for _, v := range p.vars {
		footer.WriteString(fmt.Sprintf("(get-value (%s))\n", v))
	}
	//
	return footer.String()
}

func (p *Printer) writeln(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func wrap(term string, kind TermKind) string {
	if kind.Atomic() {
		return term
	}
	//
	return "(" + term + ")"
}

func connect(op string, identity string, conds []string) string {
	switch len(conds) {
	case 0:
		return identity
	case 1:
		return conds[0]
	default:
		return fmt.Sprintf("(%s %s)", op, strings.Join(conds, " "))
	}
}
