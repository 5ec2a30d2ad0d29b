// Package watchlist loads and validates the Black MID list.
package watchlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"black-heatmap/internal/domain"
)

// Load reads a MID list from a one-entry-per-line text or single-column
// CSV file. Blank lines and a leading "mid" header are skipped; entries
// are deduplicated preserving first-seen order.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	var (
		mids []string
		seen = make(map[string]struct{})
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		// Tolerate trailing CSV columns after the MID.
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, ','); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.EqualFold(line, "mid") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		mids = append(mids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	if len(mids) == 0 {
		return nil, fmt.Errorf("%w: watchlist %s is empty", domain.ErrInvalidInput, path)
	}
	return mids, nil
}

// Validate splits mids into the ones matching the MID format (starts and
// ends with 'A') and the rest. Invalid entries are reported, not fatal.
func Validate(mids []string) (valid, invalid []string) {
	for _, mid := range mids {
		if len(mid) >= 2 && strings.HasPrefix(mid, "A") && strings.HasSuffix(mid, "A") {
			valid = append(valid, mid)
		} else {
			invalid = append(invalid, mid)
		}
	}
	return valid, invalid
}
