package dataset

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNoDomains = errors.New("no domains found in source files")

// ReadList reads a newline delimited list, trimming lines and skipping empty ones.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return out, nil
}

// LoadDomains merges all source lists into a sorted set. Missing sources are skipped;
// ErrNoDomains is returned when nothing could be loaded at all.
func LoadDomains(paths ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		list, err := ReadList(p)
		if err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				log.Warn().Str("path", p).Msg("input file not found, skipping")
				continue
			}
			return nil, errors.Wrap(err, "load domains")
		}
		for _, d := range list {
			seen[d] = struct{}{}
		}
		log.Debug().Str("path", p).Int("lines", len(list)).Msg("loaded source")
	}

	if len(seen) == 0 {
		return nil, ErrNoDomains
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
