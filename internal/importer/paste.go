package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/cutplan/internal/model"
)

// ParsePasted reads sizes pasted from a spreadsheet or typed by hand, one
// panel per line, such as "560x815" or "560 815". The first two whole numbers
// on a line are width and height; each line is one panel. Lines with fewer
// than two numbers are skipped with a warning.
func ParsePasted(text string) ImportResult {
	result := ImportResult{}

	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var dims []int
		for _, tok := range strings.Fields(pasteSeparators.Replace(line)) {
			if !isDigits(tok) {
				continue
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			dims = append(dims, n)
			if len(dims) == 2 {
				break
			}
		}

		if len(dims) < 2 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Line %d: no width and height in %q, skipped", i+1, strings.TrimSpace(line)))
			continue
		}
		if dims[0] == 0 || dims[1] == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: width and height must be positive", i+1))
			continue
		}

		result.Pieces = append(result.Pieces, ImportedPiece{
			Piece: model.NewPiece("", dims[0], dims[1], 1),
		})
	}

	return result
}

var pasteSeparators = strings.NewReplacer("x", " ", "X", " ", "×", " ", "\t", " ", ",", " ", ";", " ")

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
