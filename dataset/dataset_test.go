package dataset

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"phishing-url-dataset/features"
	"phishing-url-dataset/labeling"
	"phishing-url-dataset/registration"

	"github.com/rs/zerolog"
)

var now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := ioutil.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %s", name, err)
	}
	return p
}

func TestLoadDomains(t *testing.T) {
	dir := t.TempDir()
	discovered := writeFile(t, dir, "discovered_urls.txt", "b.com\n  a.com  \n\n\nc.com\n")
	typo := writeFile(t, dir, "typosquat_domains.txt", "c.com\na.com\nd.com\n")
	missing := filepath.Join(dir, "missing.txt")

	expected := []string{"a.com", "b.com", "c.com", "d.com"}
	for i := 0; i < 3; i++ {
		actual, err := LoadDomains(discovered, missing, typo)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(actual, expected) {
			t.Fatalf("expected %v, but got %v", expected, actual)
		}
	}
}

func TestLoadDomainsEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", "\n   \n")

	if _, err := LoadDomains(empty, filepath.Join(dir, "missing.txt")); err != ErrNoDomains {
		t.Fatalf("expected ErrNoDomains, but got %v", err)
	}
}

func TestSample(t *testing.T) {
	var items []string
	for c := 'a'; c <= 'z'; c++ {
		items = append(items, string(c)+".com")
	}

	first := Sample(items, 10, 42)
	second := Sample(items, 10, 42)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical samples for the same seed, got %v and %v", first, second)
	}
	if len(first) != 10 {
		t.Fatalf("expected 10 items, but got %d", len(first))
	}

	seen := map[string]bool{}
	for i, s := range first {
		if seen[s] {
			t.Fatalf("duplicate %s in sample", s)
		}
		seen[s] = true
		if i > 0 && first[i-1] > s {
			t.Fatalf("expected a sorted sample, got %v", first)
		}
	}

	if items[0] != "a.com" || items[25] != "z.com" {
		t.Fatalf("expected the input to be left untouched")
	}

	small := Sample(items[:5], 10, 1)
	if len(small) != 5 {
		t.Fatalf("expected small input to be returned as is, got %v", small)
	}
}

func TestLookupStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "url_features_raw.csv")

	s, err := OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	created := time.Date(2010, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.Put(Lookup{URL: "a.com", Domain: "a.com", Created: registration.Known(created)}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := s.Put(Lookup{URL: "http://b.com/x", Domain: "b.com", Created: registration.Unknown()}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	s, err = OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error on reopen: %s", err)
	}
	defer s.Close()

	if s.Len() != 2 {
		t.Fatalf("expected 2 stored lookups, but got %d", s.Len())
	}
	l, ok := s.Get("a.com")
	if c, known := l.Created.Created(); !ok || !known || !c.Equal(created) {
		t.Fatalf("expected a.com to be stored with %s, got %+v", created, l)
	}
	l, ok = s.Get("http://b.com/x")
	if !ok || l.Created.IsKnown() || l.Domain != "b.com" {
		t.Fatalf("expected b.com to be stored as unknown, got %+v", l)
	}

	raw, _ := ioutil.ReadFile(path)
	if !strings.HasPrefix(string(raw), "url,domain,creation_date\n") {
		t.Fatalf("unexpected store layout:\n%s", raw)
	}
}

func TestLookupStoreTornLine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "raw.csv", "url,domain,creation_date\na.com,a.com,2001-01-01T00:00:00Z\nb.com,b.co")

	s, err := OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := s.Put(Lookup{URL: "c.com", Domain: "c.com"}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	s.Close()

	s, err = OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer s.Close()
	if _, ok := s.Get("a.com"); !ok {
		t.Fatalf("expected a.com to survive")
	}
	if _, ok := s.Get("c.com"); !ok {
		t.Fatalf("expected c.com to be appended on its own line")
	}
}

func TestLookupStoreColumnOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "raw.csv", "creation_date,extra,url,domain\n2001-01-01T00:00:00Z,x,a.com,a.com\n")

	s, err := OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	created := time.Date(2015, 6, 7, 0, 0, 0, 0, time.UTC)
	if err := s.Put(Lookup{URL: "http://b.com/x", Domain: "b.com", Created: registration.Known(created)}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	s.Close()

	raw, _ := ioutil.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if last := lines[len(lines)-1]; last != "2015-06-07T00:00:00Z,,http://b.com/x,b.com" {
		t.Fatalf("expected the row in the file's column order, got %q", last)
	}

	s, err = OpenLookupStore(path)
	if err != nil {
		t.Fatalf("unexpected error on reopen: %s", err)
	}
	defer s.Close()

	l, ok := s.Get("http://b.com/x")
	if c, known := l.Created.Created(); !ok || !known || !c.Equal(created) || l.Domain != "b.com" {
		t.Fatalf("expected the appended lookup to read back, got %+v", l)
	}
	if l, ok := s.Get("a.com"); !ok || !l.Created.IsKnown() {
		t.Fatalf("expected the existing lookup to survive, got %+v", l)
	}
}

func TestFeatureTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_features.csv")
	records := []features.Record{
		features.Assemble("example.com", "example.com", registration.Known(now.AddDate(0, 0, -3000)), now),
		features.Assemble("http://x-y.net/a?b=c", "x-y.net", registration.Unknown(), now),
	}
	if err := WriteFeatures(path, records); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	raw, _ := ioutil.ReadFile(path)
	header := strings.SplitN(string(raw), "\n", 2)[0]
	if header != strings.Join(FeatureHeader, ",") {
		t.Fatalf("unexpected header %q", header)
	}

	actual, err := ReadFeatures(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(actual) != len(records) {
		t.Fatalf("expected %d records, but got %d", len(records), len(actual))
	}
	for i := range records {
		if actual[i].URL != records[i].URL || actual[i].Domain != records[i].Domain {
			t.Fatalf("record %d: expected %+v, but got %+v", i, records[i], actual[i])
		}
		if actual[i].Vector != records[i].Vector {
			t.Fatalf("record %d: expected features %+v, but got %+v", i, records[i].Vector, actual[i].Vector)
		}
		if actual[i].Created.IsKnown() != records[i].Created.IsKnown() {
			t.Fatalf("record %d: creation date knowledge differs", i)
		}
	}
	if actual[1].DomainAgeDays != features.MissingAge {
		t.Fatalf("expected missing age to persist as %d", features.MissingAge)
	}
}

func TestReadFeaturesByName(t *testing.T) {
	// columns shuffled and an extra one added
	content := "domain_entropy,url,extra,domain,creation_date,domain_age_days,url_length,domain_length,dots_count,hyphens_count,special_chars_count\n" +
		"2.5,a.com,zzz,a.com,,,5,5,1,0,0\n" +
		"oops,b.com,zzz,b.com,,,5,5,1,0,0\n"
	path := writeFile(t, t.TempDir(), "features.csv", content)

	recs, err := ReadFeatures(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected the malformed row to be skipped, got %d records", len(recs))
	}
	if recs[0].DomainEntropy != 2.5 || recs[0].DomainAgeDays != features.MissingAge || recs[0].URLLength != 5 {
		t.Fatalf("unexpected record %+v", recs[0].Vector)
	}

	missing := writeFile(t, t.TempDir(), "bad.csv", "url,domain\na.com,a.com\n")
	if _, err := ReadFeatures(missing); err == nil {
		t.Fatalf("expected an error for a table without feature columns")
	}
}

func TestWriteLabeled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled_features.csv")
	rec := features.Assemble("example.com", "example.com", registration.Unknown(), now)
	if err := WriteLabeled(path, []labeling.Labeled{{Record: rec, IsPhishing: labeling.Phishing}}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	raw, _ := ioutil.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != strings.Join(LabeledHeader(), ",") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",1") {
		t.Fatalf("expected the label as last column, got %q", lines[1])
	}
}

type countingResolver struct {
	m     sync.Mutex
	calls map[string]int
	known map[string]time.Time
}

func (r *countingResolver) Resolve(_ context.Context, d string) registration.Result {
	r.m.Lock()
	defer r.m.Unlock()
	r.calls[d]++
	if t, ok := r.known[d]; ok {
		return registration.Known(t)
	}
	return registration.Unknown()
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	discovered := writeFile(t, dir, "discovered_urls.txt", "example.com\nhttp://secure-login-update-account.com/verify?x=1\n!!!not a url!!!\n")
	typo := writeFile(t, dir, "typosquat_domains.txt", "example.com\nexarnple.com\n")
	storePath := filepath.Join(dir, "raw.csv")

	resolver := &countingResolver{
		calls: map[string]int{},
		known: map[string]time.Time{"example.com": now.AddDate(0, 0, -3000)},
	}

	run := func(workers int) []features.Record {
		store, err := OpenLookupStore(storePath)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		defer store.Close()

		p := NewPipeline(resolver, store, Options{
			Sources:    []string{discovered, typo},
			SampleSize: DefaultSampleSize,
			Workers:    workers,
		}, zerolog.Nop())
		recs, err := p.Run(context.Background(), now)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		return recs
	}

	recs := run(3)
	expectedURLs := []string{"example.com", "exarnple.com", "http://secure-login-update-account.com/verify?x=1"}
	if len(recs) != len(expectedURLs) {
		t.Fatalf("expected %d records, but got %d", len(expectedURLs), len(recs))
	}
	for i, u := range expectedURLs {
		if recs[i].URL != u {
			t.Fatalf("expected record %d to be %s, but got %s", i, u, recs[i].URL)
		}
	}
	if recs[0].DomainAgeDays != 3000 {
		t.Fatalf("expected example.com to be 3000 days old, got %d", recs[1].DomainAgeDays)
	}
	if recs[2].DomainAgeDays != features.MissingAge {
		t.Fatalf("expected a failed lookup to give age %d, got %d", features.MissingAge, recs[2].DomainAgeDays)
	}

	// second run is served from the store
	again := run(1)
	for d, n := range resolver.calls {
		if n != 1 {
			t.Fatalf("expected %s to be looked up once across runs, got %d", d, n)
		}
	}
	if !reflect.DeepEqual(recordURLs(recs), recordURLs(again)) {
		t.Fatalf("expected identical ordering across runs")
	}
}

func TestPipelineNoInput(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenLookupStore(filepath.Join(dir, "raw.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer store.Close()

	p := NewPipeline(registration.Offline, store, Options{
		Sources: []string{filepath.Join(dir, "missing.txt")},
	}, zerolog.Nop())
	if _, err := p.Run(context.Background(), now); err != ErrNoDomains {
		t.Fatalf("expected ErrNoDomains, but got %v", err)
	}
}

func TestPipelineCancelled(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "in.txt", "a.com\nb.com\n")
	store, err := OpenLookupStore(filepath.Join(dir, "raw.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(registration.Offline, store, Options{Sources: []string{src}}, zerolog.Nop())
	if _, err := p.Run(ctx, now); err == nil {
		t.Fatalf("expected an error for a cancelled run")
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing to be stored for cancelled lookups, got %d", store.Len())
	}
}

func recordURLs(recs []features.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.URL
	}
	return out
}

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
