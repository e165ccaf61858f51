package intelligence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/apo/internal/llm"
)

// ProposalCandidate is one oracle-proposed milestone assignment before it is
// checked against the roster and the project's milestones.
type ProposalCandidate struct {
	TaskName   string
	WeekNumber int
	HasWeek    bool
	WorkerID   string
	WorkerName string
	Reasoning  string

	// MilestoneID is set once the task name is resolved to a milestone.
	MilestoneID string
}

// ProposalParse is the outcome of reading oracle output. It is one of
// ParsedArray, ParsedObject or Unparseable.
type ProposalParse interface {
	isProposalParse()
}

// ParsedArray is a bare JSON array of candidates. Malformed holds entries
// that did not decode as a candidate, with whatever fields could be read.
type ParsedArray struct {
	Items     []ProposalCandidate
	Malformed []ProposalCandidate
}

// ParsedObject is an object whose Key field holds the candidate array.
type ParsedObject struct {
	Key       string
	Items     []ProposalCandidate
	Malformed []ProposalCandidate
}

// Unparseable means the output carried no usable candidate list.
type Unparseable struct {
	Reason string
}

func (ParsedArray) isProposalParse()  {}
func (ParsedObject) isProposalParse() {}
func (Unparseable) isProposalParse()  {}

// proposalKeys are the object fields that may hold the candidate array, in
// lookup order.
var proposalKeys = []string{"assignments", "results", "data"}

// rawCandidate accepts both field spellings seen from the oracle.
type rawCandidate struct {
	TaskName       string          `json:"task_name"`
	TaskTitle      string          `json:"task_title"`
	WeekNumber     json.RawMessage `json:"week_number"`
	WorkerID       string          `json:"worker_id"`
	AssignedTo     string          `json:"assigned_to"`
	AssignedToName string          `json:"assigned_to_name"`
	Reasoning      string          `json:"reasoning"`
}

// ParseProposal reads raw oracle output into a ProposalParse.
func ParseProposal(raw string) ProposalParse {
	value, err := llm.ExtractJSONValue(raw)
	if err != nil {
		return Unparseable{Reason: err.Error()}
	}

	if strings.HasPrefix(strings.TrimSpace(string(value)), "[") {
		items, malformed, err := decodeCandidates(value)
		if err != nil {
			return Unparseable{Reason: err.Error()}
		}
		return ParsedArray{Items: items, Malformed: malformed}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil {
		return Unparseable{Reason: fmt.Sprintf("decoding object: %v", err)}
	}
	for _, key := range proposalKeys {
		v, ok := obj[key]
		if !ok || !strings.HasPrefix(strings.TrimSpace(string(v)), "[") {
			continue
		}
		items, malformed, err := decodeCandidates(v)
		if err != nil {
			return Unparseable{Reason: fmt.Sprintf("%s: %v", key, err)}
		}
		return ParsedObject{Key: key, Items: items, Malformed: malformed}
	}
	return Unparseable{Reason: "object has no assignments, results or data array"}
}

// Candidates returns the parsed items, or an error for Unparseable.
func Candidates(p ProposalParse) ([]ProposalCandidate, error) {
	switch v := p.(type) {
	case ParsedArray:
		return v.Items, nil
	case ParsedObject:
		return v.Items, nil
	case Unparseable:
		return nil, fmt.Errorf("unparseable proposal: %s", v.Reason)
	default:
		return nil, fmt.Errorf("unexpected proposal parse %T", p)
	}
}

// MalformedCandidates returns the entries of p that could not be decoded.
func MalformedCandidates(p ProposalParse) []ProposalCandidate {
	switch v := p.(type) {
	case ParsedArray:
		return v.Malformed
	case ParsedObject:
		return v.Malformed
	default:
		return nil
	}
}

// decodeCandidates decodes each array entry on its own so one mistyped entry
// does not cost the rest of the answer.
func decodeCandidates(data json.RawMessage) (items, malformed []ProposalCandidate, err error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("decoding candidates: %w", err)
	}
	items = make([]ProposalCandidate, 0, len(entries))
	for _, entry := range entries {
		var r rawCandidate
		if err := json.Unmarshal(entry, &r); err != nil {
			malformed = append(malformed, salvageCandidate(entry))
			continue
		}
		c := ProposalCandidate{
			TaskName:   firstNonEmpty(r.TaskName, r.TaskTitle),
			WorkerID:   firstNonEmpty(r.WorkerID, r.AssignedTo),
			WorkerName: strings.TrimSpace(r.AssignedToName),
			Reasoning:  strings.TrimSpace(r.Reasoning),
		}
		c.WeekNumber, c.HasWeek = parseWeek(r.WeekNumber)
		items = append(items, c)
	}
	return items, malformed, nil
}

// salvageCandidate reads the task and worker of an entry that failed strict
// decoding, rendering scalar values of any type as text.
func salvageCandidate(entry json.RawMessage) ProposalCandidate {
	var fields map[string]any
	if err := json.Unmarshal(entry, &fields); err != nil {
		return ProposalCandidate{}
	}
	text := func(keys ...string) string {
		for _, k := range keys {
			switch v := fields[k].(type) {
			case string:
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			case float64, bool:
				return fmt.Sprint(v)
			}
		}
		return ""
	}
	return ProposalCandidate{
		TaskName: text("task_name", "task_title"),
		WorkerID: text("worker_id", "assigned_to"),
	}
}

// parseWeek accepts 3, 3.0 and "3".
func parseWeek(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// FilterByRoster splits candidates into those whose worker id is in validIDs
// and those that are not.
func FilterByRoster(candidates []ProposalCandidate, validIDs map[string]bool) (kept, discarded []ProposalCandidate) {
	for _, c := range candidates {
		if validIDs[c.WorkerID] {
			kept = append(kept, c)
		} else {
			discarded = append(discarded, c)
		}
	}
	return kept, discarded
}
