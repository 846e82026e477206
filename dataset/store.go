package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"phishing-url-dataset/registration"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var lookupHeader = []string{"url", "domain", "creation_date"}

// Lookup is one persisted registration lookup.
type Lookup struct {
	URL     string
	Domain  string
	Created registration.Result
}

// LookupStore keeps raw lookup results on disk so reruns only query what is missing.
// Every Put is flushed immediately, in the column order of the file's own header.
type LookupStore struct {
	path    string
	m       sync.Mutex
	byURL   map[string]Lookup
	columns []string
	f       *os.File
	w       *csv.Writer
}

func OpenLookupStore(path string) (*LookupStore, error) {
	s := &LookupStore{
		path:  path,
		byURL: make(map[string]Lookup),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if s.columns == nil {
		s.columns = lookupHeader
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create store directory")
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open lookup store")
	}
	s.f = f
	s.w = csv.NewWriter(f)

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat lookup store")
	}
	switch {
	case fi.Size() == 0:
		if err := s.write(lookupHeader); err != nil {
			f.Close()
			return nil, err
		}
	case !endsWithNewline(f, fi.Size()):
		// a previous run was interrupted mid-line
		if _, err := f.Write([]byte("\n")); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "repair lookup store")
		}
	}
	return s, nil
}

func endsWithNewline(f *os.File, size int64) bool {
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, size-1); err != nil {
		return true
	}
	return b[0] == '\n'
}

func (s *LookupStore) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "open lookup store")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read lookup store header")
	}
	idx, err := columnIndex(header, lookupHeader)
	if err != nil {
		return errors.Wrap(err, "lookup store")
	}
	s.columns = append([]string(nil), header...)

	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// tolerate a torn last line from an interrupted run
			log.Warn().Str("path", s.path).Int("line", line).Msgf("skipping unreadable row: %s", err)
			continue
		}
		if len(rec) < len(s.columns) {
			continue
		}
		created, err := registration.ParseResult(rec[idx["creation_date"]])
		if err != nil {
			log.Warn().Str("path", s.path).Int("line", line).Msgf("treating creation date as unknown: %s", err)
		}
		l := Lookup{
			URL:     rec[idx["url"]],
			Domain:  rec[idx["domain"]],
			Created: created,
		}
		s.byURL[l.URL] = l
	}
	return nil
}

func (s *LookupStore) Get(url string) (Lookup, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	l, ok := s.byURL[url]
	return l, ok
}

func (s *LookupStore) Put(l Lookup) error {
	s.m.Lock()
	defer s.m.Unlock()
	if err := s.write(s.row(l)); err != nil {
		return err
	}
	s.byURL[l.URL] = l
	return nil
}

func (s *LookupStore) row(l Lookup) []string {
	row := make([]string, len(s.columns))
	for i, c := range s.columns {
		switch c {
		case "url":
			row[i] = l.URL
		case "domain":
			row[i] = l.Domain
		case "creation_date":
			row[i] = l.Created.String()
		}
	}
	return row
}

func (s *LookupStore) write(rec []string) error {
	if err := s.w.Write(rec); err != nil {
		return errors.Wrap(err, "write lookup")
	}
	s.w.Flush()
	return errors.Wrap(s.w.Error(), "flush lookup")
}

func (s *LookupStore) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.byURL)
}

func (s *LookupStore) Close() error {
	s.m.Lock()
	defer s.m.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
