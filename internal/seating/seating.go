// Package seating describes the fixed auditorium layout shared by every
// session: 5 rows of 10 seats, labelled "<row>-<column>" starting at 1.
package seating

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Rows     = 5
	Cols     = 10
	Capacity = Rows * Cols
)

// Seat status values as rendered in a Grid.
const (
	Free     = "free"
	Occupied = "occupied"
)

// Label formats the seat at row r, column c.
func Label(r, c int) string { return strconv.Itoa(r) + "-" + strconv.Itoa(c) }

// Parse splits a label into its row and column and checks both are in range.
func Parse(label string) (row, col int, err error) {
	rs, cs, ok := strings.Cut(label, "-")
	if !ok {
		return 0, 0, fmt.Errorf("seat %q: want <row>-<column>", label)
	}
	row, err = strconv.Atoi(rs)
	if err != nil || row < 1 || row > Rows {
		return 0, 0, fmt.Errorf("seat %q: row out of range 1..%d", label, Rows)
	}
	col, err = strconv.Atoi(cs)
	if err != nil || col < 1 || col > Cols {
		return 0, 0, fmt.Errorf("seat %q: column out of range 1..%d", label, Cols)
	}
	return row, col, nil
}

// Valid reports whether label names a seat of the grid in canonical form,
// so "01-1" is rejected even though it parses.
func Valid(label string) bool {
	r, c, err := Parse(label)
	return err == nil && Label(r, c) == label
}

// All returns every label in row-major order.
func All() []string {
	out := make([]string, 0, Capacity)
	for r := 1; r <= Rows; r++ {
		for c := 1; c <= Cols; c++ {
			out = append(out, Label(r, c))
		}
	}
	return out
}

// Cell is one seat of a Grid.
type Cell struct {
	Seat   string `json:"seat"`
	Status string `json:"status"`
}

// Grid is the Rows×Cols availability map of one session.
type Grid [Rows][Cols]Cell

// NewGrid marks every seat contained in occupied as taken and the rest as
// free.  Labels outside the grid are ignored.
func NewGrid(occupied []string) Grid {
	taken := make(map[string]struct{}, len(occupied))
	for _, s := range occupied {
		taken[s] = struct{}{}
	}
	var g Grid
	for r := 1; r <= Rows; r++ {
		for c := 1; c <= Cols; c++ {
			label := Label(r, c)
			status := Free
			if _, ok := taken[label]; ok {
				status = Occupied
			}
			g[r-1][c-1] = Cell{Seat: label, Status: status}
		}
	}
	return g
}

// FreeSeats returns the labels still available, in row-major order.
func (g Grid) FreeSeats() []string {
	var out []string
	for _, row := range g {
		for _, cell := range row {
			if cell.Status == Free {
				out = append(out, cell.Seat)
			}
		}
	}
	return out
}
