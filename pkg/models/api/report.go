package api

import (
	"bytes"
	"encoding/json"

	"github.com/de-tools/request-atlas/pkg/models/domain"
)

// ReportRow is a JSON object whose keys keep the report's column order.
type ReportRow []domain.Cell

func (r ReportRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func NewReport(rows []domain.ReportRow) []ReportRow {
	report := make([]ReportRow, 0, len(rows))
	for _, row := range rows {
		report = append(report, ReportRow(row))
	}
	return report
}

type Field struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ValidationIssue mirrors one entry of a 422 response's detail list.
type ValidationIssue struct {
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input string   `json:"input,omitempty"`
}

type ValidationError struct {
	Detail []ValidationIssue `json:"detail"`
}

type Error struct {
	Detail string `json:"detail"`
}

type Status struct {
	Status string `json:"status"`
}
