package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trivia-service/internal/domain"
)

// BankReader loads question banks from line-oriented text files in a
// directory. The format, one bank per file:
//
//	# comment lines and blanks are skipped
//	Frage 1
//	What is 2 + 2?
//	3
//	4*
//	5
//
// A line starting with "Frage" opens a question, the next line is the
// question text, following lines are options, and a trailing "*" marks the
// correct option (the asterisk is stripped before the option is stored).
type BankReader struct {
	dir string
}

func NewBankReader(dir string) *BankReader {
	return &BankReader{dir: dir}
}

// LoadBank reads <dir>/<bankID>.txt. Unresolvable ids and files that parse
// to zero questions both report ErrBankNotFound.
func (r *BankReader) LoadBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || bankID != filepath.Base(bankID) {
		return domain.QuestionBank{}, fmt.Errorf("%w: %q", domain.ErrBankNotFound, bankID)
	}

	f, err := os.Open(filepath.Join(r.dir, bankID+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.QuestionBank{}, fmt.Errorf("%w: %q", domain.ErrBankNotFound, bankID)
		}
		return domain.QuestionBank{}, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()

	questions, err := parseQuestions(f)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("parse bank %q: %w", bankID, err)
	}
	if len(questions) == 0 {
		return domain.QuestionBank{}, fmt.Errorf("%w: %q has no questions", domain.ErrBankNotFound, bankID)
	}
	return domain.QuestionBank{ID: bankID, Questions: questions}, nil
}

func parseQuestions(f *os.File) ([]domain.Question, error) {
	var questions []domain.Question

	var (
		text    string
		options []string
		correct string
	)
	flush := func() {
		if text != "" && len(options) > 0 && correct != "" {
			questions = append(questions, domain.Question{
				Text:    text,
				Options: options,
				Correct: correct,
			})
		}
		text, options, correct = "", nil, ""
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "Frage") {
			flush()
			if scanner.Scan() {
				text = strings.TrimSpace(scanner.Text())
			}
			continue
		}

		if strings.HasSuffix(line, "*") {
			line = strings.TrimSpace(strings.TrimSuffix(line, "*"))
			correct = line
		}
		options = append(options, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return questions, nil
}
