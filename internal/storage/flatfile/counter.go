package flatfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// counterFile holds the next ID to hand out, as a single decimal
// integer followed by a newline.
const counterFile = "next_id.txt"

// loadNextID reads the counter file and returns the next available ID.
//
// Self-healing policy: an absent file is created seeded at 1, and
// content that does not parse as a positive integer ("abc", "-5", "0")
// is treated as 1 rather than failing the caller. Corrupt counter state
// is recovered locally, never surfaced.
func loadNextID(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := commitNextID(path, 1); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loadNextID: read counter: %w", err)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || id < 1 {
		return 1, nil
	}
	return id, nil
}

// commitNextID persists the counter so it always reflects "next to hand
// out", not "last issued". Goes through the atomic replacer like every
// other mutation.
func commitNextID(path string, id int64) error {
	return atomicWrite(path, []byte(strconv.FormatInt(id, 10)+"\n"))
}
