package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"phishing-url-dataset/features"
	"phishing-url-dataset/labeling"
	"phishing-url-dataset/registration"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const labelColumn = "is_phishing"

// FeatureHeader is the column layout of the persisted feature table.
var FeatureHeader = []string{
	"url",
	"domain",
	"creation_date",
	features.DomainAgeDays,
	features.URLLength,
	features.DomainLength,
	features.DotsCount,
	features.HyphensCount,
	features.SpecialCharsCount,
	features.DomainEntropy,
}

func LabeledHeader() []string {
	h := make([]string, len(FeatureHeader), len(FeatureHeader)+1)
	copy(h, FeatureHeader)
	return append(h, labelColumn)
}

func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			return nil, errors.Errorf("missing column %q", c)
		}
	}
	return idx, nil
}

func featureRow(r features.Record) []string {
	row := make([]string, len(FeatureHeader))
	row[0] = r.URL
	row[1] = r.Domain
	row[2] = r.Created.String()
	for i, c := range FeatureHeader[3:] {
		row[i+3] = r.Format(c)
	}
	return row
}

// writeTable writes to a temporary file first so readers never see a half written table.
func writeTable(path string, header []string, rows func(w *csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "create table")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return errors.Wrap(err, "write header")
	}
	if err := rows(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "flush table")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close table")
	}
	return errors.Wrap(os.Rename(tmp, path), "move table into place")
}

func WriteFeatures(path string, records []features.Record) error {
	return writeTable(path, FeatureHeader, func(w *csv.Writer) error {
		for _, r := range records {
			if err := w.Write(featureRow(r)); err != nil {
				return errors.Wrap(err, "write feature row")
			}
		}
		return nil
	})
}

func WriteLabeled(path string, labeled []labeling.Labeled) error {
	return writeTable(path, LabeledHeader(), func(w *csv.Writer) error {
		for _, l := range labeled {
			row := append(featureRow(l.Record), strconv.Itoa(l.IsPhishing))
			if err := w.Write(row); err != nil {
				return errors.Wrap(err, "write labeled row")
			}
		}
		return nil
	})
}

// ReadFeatures loads a feature table by column name. Rows that cannot be parsed are
// skipped with a warning.
func ReadFeatures(path string) ([]features.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open feature table")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read feature table header")
	}
	idx, err := columnIndex(header, FeatureHeader)
	if err != nil {
		return nil, errors.Wrap(err, "feature table")
	}

	var out []features.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Str("path", path).Int("line", line).Msgf("skipping unreadable row: %s", err)
			continue
		}
		rec, err := parseFeatureRow(row, idx)
		if err != nil {
			log.Warn().Str("path", path).Int("line", line).Msgf("skipping row: %s", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseFeatureRow(row []string, idx map[string]int) (features.Record, error) {
	var rec features.Record
	for _, c := range FeatureHeader {
		if idx[c] >= len(row) {
			return rec, errors.Errorf("short row, missing %q", c)
		}
	}

	rec.URL = row[idx["url"]]
	rec.Domain = row[idx["domain"]]
	created, err := registration.ParseResult(row[idx["creation_date"]])
	if err != nil {
		return rec, errors.Wrap(err, "creation_date")
	}
	rec.Created = created

	for _, c := range FeatureHeader[3:] {
		v := row[idx[c]]
		if v == "" && c == features.DomainAgeDays {
			v = strconv.Itoa(features.MissingAge)
		}
		if err := rec.Set(c, v); err != nil {
			return rec, errors.Wrap(err, c)
		}
	}
	return rec, nil
}
