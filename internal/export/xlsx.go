// Package export writes resolved datasets to XLSX workbooks for the
// reporting consumers.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/model"
)

const maxColWidth = 30

var dataHeaders = []string{
	"ID", "Name", "Address", "City", "Country", "Postal Code",
	"Latitude", "Longitude", "Property Type", "Size (sqm)",
	"Year Built", "Last Renovation", "Source",
}

// Dataset writes the full dataset to a timestamped workbook under dir
// and returns the file path.
func Dataset(d *model.Dataset, dir string) (string, error) {
	f := xlsx.NewFile()
	if err := addDataSheet(f, d); err != nil {
		return "", err
	}
	return save(f, dir, "location_data")
}

// SummaryReport writes the dataset plus aggregation sheets grouped by
// property type, city, and data source.
func SummaryReport(d *model.Dataset, dir string) (string, error) {
	f := xlsx.NewFile()
	if err := addDataSheet(f, d); err != nil {
		return "", err
	}

	summary := d.Summarize()

	if err := addStatsSheet(f, "By Property Type", "Property Type", summary.ByPropertyType); err != nil {
		return "", err
	}
	if err := addStatsSheet(f, "By City", "City", summary.ByCity); err != nil {
		return "", err
	}

	sheet, err := f.AddSheet("By Data Source")
	if err != nil {
		return "", eris.Wrap(err, "export: add source sheet")
	}
	header := sheet.AddRow()
	header.AddCell().Value = "Source"
	header.AddCell().Value = "Count"
	row := sheet.AddRow()
	row.AddCell().Value = d.Source.String()
	row.AddCell().SetInt(d.Len())

	return save(f, dir, "summary_report")
}

// addDataSheet writes one row per record with autosized columns.
func addDataSheet(f *xlsx.File, d *model.Dataset) error {
	sheet, err := f.AddSheet("Property Data")
	if err != nil {
		return eris.Wrap(err, "export: add data sheet")
	}

	widths := make([]int, len(dataHeaders))

	header := sheet.AddRow()
	for i, h := range dataHeaders {
		header.AddCell().Value = h
		widths[i] = len(h)
	}

	for i := range d.Records {
		r := &d.Records[i]
		values := []string{
			r.ID, r.Name, r.Address, r.City, r.Country, r.PostalCode,
			formatCoord(r.Latitude), formatCoord(r.Longitude),
			r.Attributes["property_type"], r.Attributes["size_sqm"],
			r.Attributes["year_built"], r.Attributes["last_renovation"],
			d.Source.String(),
		}
		row := sheet.AddRow()
		for col, v := range values {
			row.AddCell().Value = v
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
	}

	for col, w := range widths {
		w += 2
		if w > maxColWidth {
			w = maxColWidth
		}
		sheet.SetColWidth(col, col, float64(w))
	}
	return nil
}

// addStatsSheet writes one aggregation bucket per row.
func addStatsSheet(f *xlsx.File, sheetName, keyHeader string, stats map[string]model.SizeStats) error {
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", sheetName)
	}

	header := sheet.AddRow()
	for _, h := range []string{keyHeader, "Count", "Total Size (sqm)", "Avg Size (sqm)", "Min Size (sqm)", "Max Size (sqm)"} {
		header.AddCell().Value = h
	}

	for _, key := range model.SortedKeys(stats) {
		st := stats[key]
		row := sheet.AddRow()
		row.AddCell().Value = key
		row.AddCell().SetInt(st.Count)
		row.AddCell().SetInt(st.TotalSqm)
		row.AddCell().SetInt(st.AvgSqm)
		row.AddCell().SetInt(st.MinSqm)
		row.AddCell().SetInt(st.MaxSqm)
	}
	return nil
}

// save writes the workbook under dir with a timestamped name.
func save(f *xlsx.File, dir, base string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create export dir")
	}

	name := fmt.Sprintf("%s_%s.xlsx", base, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "export: save workbook")
	}

	zap.L().Info("export: workbook written", zap.String("path", path))
	return path, nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}
