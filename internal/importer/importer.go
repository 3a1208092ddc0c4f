// Package importer turns question spreadsheets into validated questions.
//
// The first row is a header and is skipped. Columns, in order: prompt,
// options A to D, answer, category, difficulty, explanation, type.
package importer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Column positions.
const (
	colPrompt = iota
	colOptionA
	colOptionB
	colOptionC
	colOptionD
	colAnswer
	colCategory
	colDifficulty
	colExplanation
	colType
)

// RowIssue describes a row that was skipped.
type RowIssue struct {
	Row    int // 1-based, as shown in a spreadsheet
	Reason string
}

func (i RowIssue) String() string {
	return fmt.Sprintf("row %d: %s", i.Row, i.Reason)
}

// Result is the outcome of parsing one file.
type Result struct {
	Questions []quiz.Question
	Issues    []RowIssue
}

// ParseFile parses an .xlsx or .csv file.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return ParseXLSX(f)
	case ".csv":
		return ParseCSV(f)
	default:
		return nil, &quiz.ValidationError{Field: "file", Reason: fmt.Sprintf("unsupported file type %q (want .xlsx or .csv)", ext)}
	}
}

// Parser converts raw rows into questions.
type Parser struct {
	newID func() string
}

// NewParser creates a Parser that assigns UUIDv4 question ids.
func NewParser() *Parser {
	return &Parser{newID: uuid.NewString}
}

// ParseRows converts rows, header included.
func (p *Parser) ParseRows(rows [][]string) *Result {
	res := &Result{Questions: []quiz.Question{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if strings.TrimSpace(cell(row, colPrompt)) == "" {
			continue
		}

		q := p.parseRow(row)
		if err := quiz.ValidateQuestion(q); err != nil {
			res.Issues = append(res.Issues, RowIssue{Row: i + 1, Reason: err.Error()})
			continue
		}
		res.Questions = append(res.Questions, q)
	}
	return res
}

func (p *Parser) parseRow(row []string) quiz.Question {
	kind := quiz.ParseKind(strings.ToLower(strings.TrimSpace(cell(row, colType))))
	answer := strings.TrimSpace(cell(row, colAnswer))

	q := quiz.Question{
		ID:          p.newID(),
		Text:        strings.TrimSpace(cell(row, colPrompt)),
		Kind:        kind,
		Category:    strings.TrimSpace(cell(row, colCategory)),
		Difficulty:  strings.TrimSpace(cell(row, colDifficulty)),
		Explanation: strings.TrimSpace(cell(row, colExplanation)),
	}

	if kind == quiz.KindJudgment {
		q.Options = slices.Clone(quiz.JudgmentOptions)
	} else {
		q.Options = []string{}
		for c := colOptionA; c <= colOptionD; c++ {
			if opt := strings.TrimSpace(cell(row, c)); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
	}

	if kind == quiz.KindMultiple {
		q.CorrectAnswer = parseAnswerSet(answer, len(q.Options))
	} else {
		q.CorrectAnswer = quiz.Scalar(parseAnswerIndex(answer, len(q.Options)))
	}
	return q
}

// parseAnswerIndex reads a 1-based option number. Malformed or out of range
// values fall back to the first option.
func parseAnswerIndex(s string, n int) int {
	idx, ok := parseOrdinal(s)
	if !ok || idx < 0 || idx >= n {
		return 0
	}
	return idx
}

var answerSep = regexp.MustCompile(`[,，\s]+`)

// parseAnswerSet reads a list of 1-based option numbers separated by commas
// (ASCII or full width) or whitespace. Malformed, out of range and
// duplicate entries are dropped; an empty result falls back to {0}.
func parseAnswerSet(s string, n int) quiz.Answer {
	var idx []int
	for _, tok := range answerSep.Split(s, -1) {
		i, ok := parseOrdinal(tok)
		if !ok || i < 0 || i >= n || slices.Contains(idx, i) {
			continue
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 {
		return quiz.Set(0)
	}
	return quiz.Set(idx...)
}

// parseOrdinal converts "3" (or "3.0", as spreadsheets export) to index 2.
func parseOrdinal(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f) - 1, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// NewBank assembles a bank from parsed questions.
func NewBank(name string, questions []quiz.Question, now time.Time) (*quiz.Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &quiz.ValidationError{Field: "name", Reason: "is required"}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("bank %q: %w", name, quiz.ErrEmptyResult)
	}
	return &quiz.Bank{
		ID:        uuid.NewString(),
		Name:      name,
		Questions: slices.Clone(questions),
		CreatedAt: quiz.MillisOf(now),
	}, nil
}

// BankName derives a default bank name from a file path.
func BankName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// errNoSheets is returned for workbooks without any worksheet.
var errNoSheets = errors.New("workbook has no sheets")

func readAllRows(r io.Reader, read func(io.Reader) ([][]string, error)) (*Result, error) {
	rows, err := read(r)
	if err != nil {
		return nil, err
	}
	return NewParser().ParseRows(rows), nil
}
