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

// Package circuitfile reads the JSON artifact produced by a circuit framework
// after synthesis: the constraint system, the concrete region layout and the
// fixed-column matrix.  The analyzer treats everything in it as read-only
// input; this package is strictly a deserializer.
package circuitfile

import (
	"encoding/json"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
)

// Expressions are encoded as prefix arrays, e.g.
//
//	["mul", ["sel", 0], ["advice", 0, 0]]
//	["sum", ["advice", 0, 0], ["neg", ["instance", 0, 0]]]
//	["scale", ["fixed", 1, 0], "42"]
//
// with field values given as decimal strings.

type jsonGate struct {
	Name  string            `json:"name"`
	Polys []json.RawMessage `json:"polys"`
}

type jsonLookup struct {
	Name   string            `json:"name"`
	Inputs []json.RawMessage `json:"inputs"`
	Table  []json.RawMessage `json:"table"`
}

type jsonRegion struct {
	Name             string              `json:"name"`
	Rows             int                 `json:"rows"`
	Selectors        []int               `json:"selectors"`
	Columns          [][]json.RawMessage `json:"columns"`
	AdviceEqualities [][2]string         `json:"advice_equalities"`
	Equalities       [][2]string         `json:"equalities"`
}

type jsonCircuit struct {
	NumSelectors  int               `json:"num_selectors"`
	Gates         []jsonGate        `json:"gates"`
	Lookups       []jsonLookup      `json:"lookups"`
	AdviceQueries [][2]int          `json:"advice_queries"`
	Regions       []jsonRegion      `json:"regions"`
	Equalities    [][2]string       `json:"equalities"`
	Fixed         [][]*string       `json:"fixed"`
}

// CircuitFromJson parses a circuit artifact.
func CircuitFromJson(data []byte) (*circuit.Circuit, error) {
	var raw jsonCircuit
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed circuit file: %w", err)
	}
	//
	c := &circuit.Circuit{}
	c.CS.NumSelectors = raw.NumSelectors
	//
	for _, gate := range raw.Gates {
		polys, err := parseExprs(gate.Polys)
		if err != nil {
			return nil, fmt.Errorf("gate %q: %w", gate.Name, err)
		}
		//
		c.CS.Gates = append(c.CS.Gates, circuit.Gate{Name: gate.Name, Polys: polys})
	}
	//
	for _, lookup := range raw.Lookups {
		inputs, err := parseExprs(lookup.Inputs)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", lookup.Name, err)
		}
		//
		table, err := parseExprs(lookup.Table)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", lookup.Name, err)
		}
		//
		c.CS.Lookups = append(c.CS.Lookups, circuit.Lookup{Name: lookup.Name, Inputs: inputs, Table: table})
	}
	//
	for _, query := range raw.AdviceQueries {
		c.CS.AdviceQueries = append(c.CS.AdviceQueries, circuit.Query{
			Column:   circuit.Column{Kind: circuit.AdviceColumn, Index: query[0]},
			Rotation: query[1],
		})
	}
	//
	for _, region := range raw.Regions {
		parsed, err := parseRegion(region, raw.NumSelectors)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", region.Name, err)
		}
		//
		c.Layout.Regions = append(c.Layout.Regions, parsed)
	}
	//
	for _, eq := range raw.Equalities {
		c.Layout.Equalities = append(c.Layout.Equalities, circuit.CellEquality{Left: eq[0], Right: eq[1]})
	}
	//
	fixed, err := parseFixed(raw.Fixed)
	if err != nil {
		return nil, err
	}
	//
	c.Fixed = fixed
	//
	return c, nil
}

func parseRegion(raw jsonRegion, numSelectors int) (circuit.Region, error) {
	region := circuit.Region{
		Name:             raw.Name,
		RowCount:         raw.Rows,
		EnabledSelectors: bitset.New(uint(max(numSelectors, 1))),
	}
	//
	for _, sel := range raw.Selectors {
		if sel < 0 || sel >= numSelectors {
			return region, fmt.Errorf("selector %d out of range", sel)
		}
		//
		region.EnabledSelectors.Set(uint(sel))
	}
	//
	for _, col := range raw.Columns {
		query, err := parseColumnQuery(col)
		if err != nil {
			return region, err
		}
		//
		region.Columns = append(region.Columns, query)
	}
	//
	for _, eq := range raw.AdviceEqualities {
		region.AdviceEqualities = append(region.AdviceEqualities, circuit.CellEquality{Left: eq[0], Right: eq[1]})
	}
	//
	for _, eq := range raw.Equalities {
		region.Equalities = append(region.Equalities, circuit.CellEquality{Left: eq[0], Right: eq[1]})
	}
	//
	return region, nil
}

// parseColumnQuery decodes a ["kind", column, rotation] triple.
func parseColumnQuery(raw []json.RawMessage) (circuit.Query, error) {
	var (
		kind     string
		column   int
		rotation int
	)
	//
	if len(raw) != 3 {
		return circuit.Query{}, fmt.Errorf("malformed column query (%d elements)", len(raw))
	}
	//
	if err := json.Unmarshal(raw[0], &kind); err != nil {
		return circuit.Query{}, err
	}
	//
	if err := json.Unmarshal(raw[1], &column); err != nil {
		return circuit.Query{}, err
	}
	//
	if err := json.Unmarshal(raw[2], &rotation); err != nil {
		return circuit.Query{}, err
	}
	//
	var columnKind circuit.ColumnKind
	//
	switch kind {
	case "advice":
		columnKind = circuit.AdviceColumn
	case "fixed":
		columnKind = circuit.FixedColumn
	case "instance":
		columnKind = circuit.InstanceColumn
	case "selector":
		columnKind = circuit.SelectorColumn
	default:
		return circuit.Query{}, fmt.Errorf("unknown column kind %q", kind)
	}
	//
	return circuit.Query{Column: circuit.Column{Kind: columnKind, Index: column}, Rotation: rotation}, nil
}

// parseFixed decodes the column-major fixed matrix.  nil means Unassigned and
// the sentinel "!" means Poisoned; anything else is a decimal field value.
func parseFixed(raw [][]*string) (circuit.FixedMatrix, error) {
	matrix := make(circuit.FixedMatrix, len(raw))
	//
	for col, cells := range raw {
		matrix[col] = make([]circuit.CellValue, len(cells))
		//
		for row, cell := range cells {
			switch {
			case cell == nil:
				matrix[col][row] = circuit.CellValue{State: circuit.Unassigned}
			case *cell == "!":
				matrix[col][row] = circuit.CellValue{State: circuit.Poisoned}
			default:
				value, err := parseValue(*cell)
				if err != nil {
					return nil, fmt.Errorf("fixed[%d][%d]: %w", col, row, err)
				}
				//
				matrix[col][row] = circuit.CellValue{State: circuit.Assigned, Value: value}
			}
		}
	}
	//
	return matrix, nil
}

func parseExprs(raw []json.RawMessage) ([]circuit.Expr, error) {
	exprs := make([]circuit.Expr, len(raw))
	//
	for i, r := range raw {
		expr, err := ParseExpr(r)
		if err != nil {
			return nil, err
		}
		//
		exprs[i] = expr
	}
	//
	return exprs, nil
}

// ParseExpr decodes one prefix-encoded expression.
func ParseExpr(raw json.RawMessage) (circuit.Expr, error) {
	var parts []json.RawMessage
	//
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("malformed expression %s: %w", string(raw), err)
	}
	//
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	//
	var op string
	//
	if err := json.Unmarshal(parts[0], &op); err != nil {
		return nil, fmt.Errorf("malformed expression operator in %s: %w", string(raw), err)
	}
	//
	switch op {
	case "const":
		value, err := parseValueArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		return circuit.Constant{Value: value}, nil
	case "sel":
		index, err := parseIntArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		return circuit.Selector{Index: index}, nil
	case "fixed", "advice", "instance":
		column, err := parseIntArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		rotation, err := parseIntArg(parts, 2)
		if err != nil {
			return nil, err
		}
		//
		switch op {
		case "fixed":
			return circuit.FixedQuery{ColumnIndex: column, Rotation: rotation}, nil
		case "advice":
			return circuit.AdviceQuery{ColumnIndex: column, Rotation: rotation}, nil
		default:
			return circuit.InstanceQuery{ColumnIndex: column, Rotation: rotation}, nil
		}
	case "neg":
		arg, err := parseExprArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		return circuit.Negated{Arg: arg}, nil
	case "sum", "mul":
		left, err := parseExprArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		right, err := parseExprArg(parts, 2)
		if err != nil {
			return nil, err
		}
		//
		if op == "sum" {
			return circuit.Sum{Left: left, Right: right}, nil
		}
		//
		return circuit.Product{Left: left, Right: right}, nil
	case "scale":
		arg, err := parseExprArg(parts, 1)
		if err != nil {
			return nil, err
		}
		//
		scalar, err := parseValueArg(parts, 2)
		if err != nil {
			return nil, err
		}
		//
		return circuit.Scaled{Arg: arg, Scalar: scalar}, nil
	default:
		return nil, fmt.Errorf("unknown expression operator %q", op)
	}
}

func parseExprArg(parts []json.RawMessage, index int) (circuit.Expr, error) {
	if index >= len(parts) {
		return nil, fmt.Errorf("missing expression argument %d", index)
	}
	//
	return ParseExpr(parts[index])
}

func parseIntArg(parts []json.RawMessage, index int) (int, error) {
	if index >= len(parts) {
		return 0, fmt.Errorf("missing integer argument %d", index)
	}
	//
	var val int
	//
	if err := json.Unmarshal(parts[index], &val); err != nil {
		return 0, err
	}
	//
	return val, nil
}

func parseValueArg(parts []json.RawMessage, index int) (fr.Element, error) {
	if index >= len(parts) {
		return fr.Element{}, fmt.Errorf("missing value argument %d", index)
	}
	//
	var text string
	//
	if err := json.Unmarshal(parts[index], &text); err != nil {
		return fr.Element{}, err
	}
	//
	return parseValue(text)
}

func parseValue(text string) (fr.Element, error) {
	var value fr.Element
	//
	if _, err := value.SetString(text); err != nil {
		return fr.Element{}, fmt.Errorf("malformed field value %q: %w", text, err)
	}
	//
	return value, nil
}
