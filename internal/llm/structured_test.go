package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Summary       string  `json:"summary"`
	BudgetPortion float64 `json:"budget_portion"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		summary string
		portion float64
	}{
		{"clean", `{"summary":"bridge","budget_portion":0.95}`, "bridge", 0.95},
		{"fenced", "```json\n{\"summary\":\"bridge\",\"budget_portion\":0.9}\n```", "bridge", 0.9},
		{"surrounding text", `Here you go: {"summary":"bridge","budget_portion":0.8} hope it helps`, "bridge", 0.8},
		{"bare fence", "Some text\n```\n{\"summary\":\"road\",\"budget_portion\":0.8}\n```\nMore text", "road", 0.8},
		{"braces inside strings", `{"summary":"use {braces} and \"quotes\"","budget_portion":1}`, `use {braces} and "quotes"`, 1},
		{"line comments", "{\n\"summary\":\"x\", // note\n\"budget_portion\":0.5\n}", "x", 0.5},
		{"comment after string with slashes", "{\"summary\":\"a//b\", // note\n\"budget_portion\":0.25}", "a//b", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON[testPayload](tt.raw, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.summary, got.Summary)
			assert.InDelta(t, tt.portion, got.BudgetPortion, 1e-9)
		})
	}
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	type nested struct {
		Client struct {
			Name string `json:"name"`
		} `json:"client"`
	}
	got, err := ExtractJSON[nested](`{"client":{"name":"Acme"}} trailing {"x":1}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Client.Name)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("I cannot help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"summary": bridge}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validator(t *testing.T) {
	validator := func(p testPayload) error {
		if p.Summary == "" {
			return errors.New("summary is required")
		}
		return nil
	}

	_, err := ExtractJSON[testPayload](`{"budget_portion":1}`, validator)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "summary is required")

	got, err := ExtractJSON[testPayload](`{"summary":"ok"}`, validator)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Summary)
}

func TestExtractJSONValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"array", `[{"a":1}]`, `[{"a":1}]`},
		{"object", `{"assignments":[]}`, `{"assignments":[]}`},
		{"fenced array", "```json\n[1, 2]\n```", `[1, 2]`},
		{"array before object", `result: [{"a":"]"}] and {"b":2}`, `[{"a":"]"}]`},
		{"object before array", `{"data":[1]} then [2]`, `{"data":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONValue(tt.raw)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONValue_Rejects(t *testing.T) {
	for _, raw := range []string{"", "no json here", `{"a": }`, `[1, 2`} {
		_, err := ExtractJSONValue(raw)
		assert.ErrorIs(t, err, ErrInvalidOutput, raw)
	}
}
