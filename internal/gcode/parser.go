package gcode

import (
	"bufio"
	"math"
	"strconv"
	"strings"
)

// MoveType classifies a parsed motion.
type MoveType int

const (
	MoveRapid MoveType = iota
	MoveFeed
	MovePlunge  // feed move that only lowers Z
	MoveRetract // any move that only raises Z
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	}
	return "unknown"
}

// Move is one motion segment with absolute start and end points.
type Move struct {
	Type       MoveType
	FromX      float64
	FromY      float64
	FromZ      float64
	X, Y, Z    float64
	Feed       float64 // mm/min in effect, 0 for rapids
	LineNumber int     // 1-based source line
}

// Length returns the Euclidean length of the move.
func (m Move) Length() float64 {
	return math.Sqrt((m.X-m.FromX)*(m.X-m.FromX) + (m.Y-m.FromY)*(m.Y-m.FromY) + (m.Z-m.FromZ)*(m.Z-m.FromZ))
}

// ParseGCode extracts G0/G1 motion from a program in absolute millimetres.
// Comments in ";" or "( )" form are ignored, and modal G0/G1 carries over
// to lines that only give coordinates.
func ParseGCode(code string) []Move {
	var (
		moves   []Move
		x, y, z float64
		feed    float64
		modal   = -1
		lineNo  int
		scanner = bufio.NewScanner(strings.NewReader(code))
	)
	for scanner.Scan() {
		lineNo++
		words := strings.Fields(strings.ToUpper(stripComments(scanner.Text())))
		if len(words) == 0 {
			continue
		}

		nx, ny, nz := x, y, z
		hasAxis := false
		for _, word := range words {
			if len(word) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(word[1:], 64)
			if err != nil {
				continue
			}
			switch word[0] {
			case 'G':
				if v == 0 || v == 1 {
					modal = int(v)
				}
			case 'X':
				nx, hasAxis = v, true
			case 'Y':
				ny, hasAxis = v, true
			case 'Z':
				nz, hasAxis = v, true
			case 'F':
				feed = v
			}
		}
		if !hasAxis || modal < 0 {
			continue
		}

		m := Move{FromX: x, FromY: y, FromZ: z, X: nx, Y: ny, Z: nz, LineNumber: lineNo}
		m.Type = classifyMove(m, modal == 0)
		if modal == 1 {
			m.Feed = feed
		}
		moves = append(moves, m)
		x, y, z = nx, ny, nz
	}
	return moves
}

func stripComments(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			return line
		}
		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			return line[:open]
		}
		line = line[:open] + " " + line[open+end+1:]
	}
}

func classifyMove(m Move, rapid bool) MoveType {
	xyStill := m.X == m.FromX && m.Y == m.FromY
	switch {
	case xyStill && m.Z > m.FromZ:
		return MoveRetract
	case rapid:
		return MoveRapid
	case xyStill && m.Z < m.FromZ:
		return MovePlunge
	}
	return MoveFeed
}

// DefaultRapidRate is the traverse speed assumed when estimating run time.
const DefaultRapidRate = 5000.0 // mm/min

// Stats summarises a parsed program.
type Stats struct {
	Moves       int
	CutLength   float64 // mm at feed, including plunges
	RapidLength float64 // mm at rapid, including retracts
	Plunges     int
	MaxDepth    float64 // deepest Z reached, as a positive number
	MinX, MinY  float64
	MaxX, MaxY  float64
	Minutes     float64 // estimated run time
}

// Analyze totals distances and estimates run time. Feed moves without a
// feed rate are timed at rapidRate; rapidRate <= 0 uses DefaultRapidRate.
func Analyze(moves []Move, rapidRate float64) Stats {
	if rapidRate <= 0 {
		rapidRate = DefaultRapidRate
	}
	st := Stats{Moves: len(moves)}
	if len(moves) == 0 {
		return st
	}
	st.MinX, st.MinY = math.Inf(1), math.Inf(1)
	st.MaxX, st.MaxY = math.Inf(-1), math.Inf(-1)

	for _, m := range moves {
		l := m.Length()
		cutting := m.Type == MoveFeed || m.Type == MovePlunge
		if cutting {
			st.CutLength += l
			rate := m.Feed
			if rate <= 0 {
				rate = rapidRate
			}
			st.Minutes += l / rate
		} else {
			st.RapidLength += l
			st.Minutes += l / rapidRate
		}
		if m.Type == MovePlunge {
			st.Plunges++
		}
		if -m.Z > st.MaxDepth {
			st.MaxDepth = -m.Z
		}
		if cutting {
			st.MinX = math.Min(st.MinX, math.Min(m.FromX, m.X))
			st.MinY = math.Min(st.MinY, math.Min(m.FromY, m.Y))
			st.MaxX = math.Max(st.MaxX, math.Max(m.FromX, m.X))
			st.MaxY = math.Max(st.MaxY, math.Max(m.FromY, m.Y))
		}
	}
	if math.IsInf(st.MinX, 1) {
		st.MinX, st.MinY, st.MaxX, st.MaxY = 0, 0, 0, 0
	}
	return st
}
