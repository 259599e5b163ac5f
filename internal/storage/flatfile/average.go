package flatfile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aanand-mishra/student-records/internal/storage"
)

// recomputeAverage re-derives the cached AVERAGE_GRADE of the record at
// path from its four subject-grade lines and commits the result.
//
// All four grades must be present: a record missing one is never
// auto-repaired — the file is left untouched and ErrMissingFields is
// returned. The AVERAGE_GRADE line is rewritten in place, or appended
// when absent (legacy records predate the cached average). Every other
// line keeps its position and content.
//
// Callers hold s.mu; this is part of the mutation path.
func (s *Store) recomputeAverage(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("recomputeAverage: read record: %w", err)
	}
	lines := splitLines(data)

	var grades [4]*float64
	for _, line := range lines {
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		for n := 1; n <= 4; n++ {
			if key != subjectGradeKey(n) || grades[n-1] != nil {
				continue
			}
			g, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0, fmt.Errorf("recomputeAverage: %s = %q: %w",
					key, value, storage.ErrMissingFields)
			}
			grades[n-1] = &g
		}
	}

	sum := 0.0
	for n, g := range grades {
		if g == nil {
			return 0, fmt.Errorf("recomputeAverage: no %s line: %w",
				subjectGradeKey(n+1), storage.ErrMissingFields)
		}
		sum += *g
	}
	avg := sum / 4.0

	out, found := replaceFirst(lines, keyAverageGrade, formatFloat(avg))
	if !found {
		out = append(out, formatLine(keyAverageGrade, formatFloat(avg)))
	}
	if err := atomicWrite(path, joinLines(out)); err != nil {
		return 0, err
	}
	return avg, nil
}
