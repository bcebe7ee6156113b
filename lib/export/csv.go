package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type Mode string

const (
	// ModeLegacy joins fields with commas and swaps commas inside free text
	// columns for semicolons and line breaks for spaces. Nothing is quoted.
	ModeLegacy Mode = "legacy"
	// ModeRFC4180 quotes fields that need it and keeps their text intact.
	ModeRFC4180 Mode = "rfc4180"
)

// a free text field must stay on its own record line
var legacyFreeText = strings.NewReplacer(",", ";", "\r\n", " ", "\n", " ", "\r", " ")

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLegacy:
		return ModeLegacy, nil
	case ModeRFC4180:
		return ModeRFC4180, nil
	default:
		return "", fmt.Errorf("unknown csv mode %q", s)
	}
}

func CSV(t Table, mode Mode) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t, mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteCSV(w io.Writer, t Table, mode Mode) error {
	if mode == ModeRFC4180 {
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Headers); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
		return cw.Error()
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Headers, ","))
	for _, row := range t.Rows {
		fields := make([]string, len(row))
		for i, field := range row {
			if t.FreeText[i] {
				field = legacyFreeText.Replace(field)
			}
			fields[i] = field
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
