package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/signalnine/tonebench/internal/result"
)

// TaskGroup holds every record of one task, in input order.
type TaskGroup struct {
	Name    string
	Records []result.ResultRecord
}

// Type is the task type of the group's first record.
func (g TaskGroup) Type() string {
	if len(g.Records) == 0 {
		return ""
	}
	return g.Records[0].TaskType
}

// Groups is ordered by first appearance of each task name. It encodes as a
// JSON object whose keys keep that order.
type Groups []TaskGroup

// Group partitions records by task name. Groups appear in the order their
// task is first seen; records keep their relative order. It panics on a
// record with an empty task name.
func Group(records []result.ResultRecord) Groups {
	var groups Groups
	index := map[string]int{}
	for _, r := range records {
		if r.TaskName == "" {
			panic("report: result record with empty task name")
		}
		i, ok := index[r.TaskName]
		if !ok {
			i = len(groups)
			index[r.TaskName] = i
			groups = append(groups, TaskGroup{Name: r.TaskName})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tg := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		records := tg.Records
		if records == nil {
			records = []result.ResultRecord{}
		}
		if err := encodeRaw(&buf, tg.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeRaw(&buf, records); err != nil {
			return nil, fmt.Errorf("encoding task %q: %w", tg.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeRaw appends v without HTML escaping; json.Marshal escapes the
// combined output when the caller needs it.
func encodeRaw(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("task groups: expected object, got %v", tok)
	}
	var out Groups
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var records []result.ResultRecord
		if err := dec.Decode(&records); err != nil {
			return fmt.Errorf("task %q: %w", name, err)
		}
		out = append(out, TaskGroup{Name: name, Records: records})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}
