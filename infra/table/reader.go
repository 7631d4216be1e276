// Package table reads student rosters from CSV and writes assignment and
// summary tables back out.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/roster"
)

// row mirrors one record of the roster CSV before conversion to a Student.
type row struct {
	ID       string `validate:"required"`
	Gender   string `validate:"required,oneof=F M"`
	Category string `validate:"required"`
	Score    float64
}

var validate = validator.New()

// columns maps header names to field positions. The header is matched
// case-insensitively and columns may appear in any order.
var columns = []string{"id", "gender", "category", "score"}

// ReadStudents parses a student roster CSV. The first record must be a
// header naming the id, gender, category and score columns. Any missing or
// malformed record aborts the read; partial cohorts are never returned.
func ReadStudents(r io.Reader) ([]model.Student, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &roster.InputError{Detail: "empty roster file"}
	}
	if err != nil {
		return nil, &roster.InputError{Detail: fmt.Sprintf("read header: %v", err)}
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var students []model.Student
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &roster.InputError{Detail: fmt.Sprintf("line %d: %v", line, err)}
		}
		s, err := parseRow(rec, idx, line)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if len(students) == 0 {
		return nil, &roster.InputError{Detail: "roster file has no student records"}
	}
	return students, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, &roster.InputError{Detail: fmt.Sprintf("missing column %q in header", c)}
		}
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int, line int) (model.Student, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var r row
	r.ID = field("id")
	r.Gender = field("gender")
	r.Category = field("category")
	if raw := field("score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return model.Student{}, &roster.InputError{StudentID: r.ID, Detail: fmt.Sprintf("line %d: invalid score %q", line, raw)}
		}
		r.Score = score
	} else {
		return model.Student{}, &roster.InputError{StudentID: r.ID, Detail: fmt.Sprintf("line %d: missing score", line)}
	}
	if err := validate.Struct(r); err != nil {
		return model.Student{}, &roster.InputError{StudentID: r.ID, Detail: fmt.Sprintf("line %d: %v", line, err)}
	}
	return model.Student{
		ID:       r.ID,
		Gender:   model.Gender(r.Gender),
		Category: r.Category,
		Score:    r.Score,
	}, nil
}
