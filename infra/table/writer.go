package table

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/groupsmith/syndicate/core/model"
)

// WriteAssignments writes the per-student assignment table to w, ordered by
// group and student ID.
func WriteAssignments(w io.Writer, a model.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student", "group"}); err != nil {
		return err
	}
	for _, g := range a.Groups {
		for _, id := range a.Members(g) {
			if err := cw.Write([]string{id, string(g)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the per-group summary table to w.
func WriteSummary(w io.Writer, stats []model.GroupStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group", "size", "female", "male", "categories", "members", "score_sum", "score_mean"}); err != nil {
		return err
	}
	for _, st := range stats {
		rec := []string{
			string(st.Group),
			strconv.Itoa(st.Size),
			strconv.Itoa(st.ByGender[model.Female]),
			strconv.Itoa(st.ByGender[model.Male]),
			categoryCounts(st.ByCategory),
			strings.Join(st.Members, " "),
			strconv.FormatFloat(st.ScoreSum, 'f', -1, 64),
			strconv.FormatFloat(st.ScoreMean, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// categoryCounts renders the per-category counts as "cat=n" pairs in a
// stable order.
func categoryCounts(counts map[string]int) string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = c + "=" + strconv.Itoa(counts[c])
	}
	return strings.Join(parts, " ")
}
