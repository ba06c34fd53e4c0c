package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Question is one entry of a room's fixed question bank.
type Question struct {
	Text   string
	Answer string
}

var (
	errSourceEmpty   = errors.New("question source contains no usable rows")
	errSourceColumns = errors.New("question source is missing a \"question\" or \"answer\" column")
)

// parseQuestionSource decodes an uploaded CSV question bank into an
// ordered question list. The first row must be a header naming a
// "question" and an "answer" column; rows where either value is blank
// are skipped.
func parseQuestionSource(source string) ([]Question, error) {
	reader := csv.NewReader(strings.NewReader(source))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errSourceEmpty
		}
		return nil, fmt.Errorf("decoding question source: %w", err)
	}

	questionCol, answerCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			questionCol = i
		case "answer":
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return nil, errSourceColumns
	}

	var questions []Question
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding question source: %w", err)
		}
		if questionCol >= len(row) || answerCol >= len(row) {
			continue
		}

		text := strings.TrimSpace(row[questionCol])
		answer := strings.TrimSpace(row[answerCol])
		if text == "" || answer == "" {
			continue
		}

		questions = append(questions, Question{
			Text:   text,
			Answer: answer,
		})
	}

	if len(questions) == 0 {
		return nil, errSourceEmpty
	}

	return questions, nil
}
