package dataset

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/zerr"
)

// record is one entry of a competition dataset file. Answers may be strings or numbers.
type record struct {
	Problem string          `json:"problem"`
	Answer  json.RawMessage `json:"answer"`
}

// LoadFile reads problems from a JSON array or a JSON Lines file.
func LoadFile(path string) ([]domain.Problem, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the experiment plan
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDatasetReadFailed.Error()), "path", path)
	}

	var records []record
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDatasetParseFailed.Error()), "path", path)
		}
	} else {
		records, err = readLines(trimmed)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}

	problems := make([]domain.Problem, 0, len(records))
	for i, r := range records {
		answer, err := answerText(r.Answer)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrDatasetParseFailed.Error()), "path", path)
			return nil, zerr.With(err, "record", i)
		}
		problems = append(problems, domain.Problem{Text: r.Problem, Answer: answer})
	}
	return problems, nil
}

func readLines(data []byte) ([]record, error) {
	var records []record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDatasetParseFailed.Error()), "line", line)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDatasetReadFailed.Error())
	}
	return records, nil
}

func answerText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return strings.TrimSpace(string(raw)), nil
}
