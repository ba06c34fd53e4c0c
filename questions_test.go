package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionSource(t *testing.T) {
	questions, err := parseQuestionSource("question,answer\nQ1,A1\nQ2,A2\n")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, Question{Text: "Q1", Answer: "A1"}, questions[0])
	assert.Equal(t, Question{Text: "Q2", Answer: "A2"}, questions[1])
}

func TestParseQuestionSourceExtraColumns(t *testing.T) {
	// Column order and extra columns don't matter, and the header is
	// case-insensitive.
	questions, err := parseQuestionSource("id,Answer,Question\n1,A1,Q1\n2,A2,Q2\n")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, Question{Text: "Q1", Answer: "A1"}, questions[0])
}

func TestParseQuestionSourceSkipsBlankRows(t *testing.T) {
	questions, err := parseQuestionSource("question,answer\nQ1,A1\n,\nQ2,\n")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Text)
}

func TestParseQuestionSourceMissingColumns(t *testing.T) {
	_, err := parseQuestionSource("prompt,solution\nQ1,A1\n")
	assert.ErrorIs(t, err, errSourceColumns)
}

func TestParseQuestionSourceEmpty(t *testing.T) {
	_, err := parseQuestionSource("")
	assert.ErrorIs(t, err, errSourceEmpty)

	_, err = parseQuestionSource("question,answer\n")
	assert.ErrorIs(t, err, errSourceEmpty)
}

func TestParseQuestionSourceMalformed(t *testing.T) {
	_, err := parseQuestionSource("question,answer\n\"unterminated,A1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding question source")
}
