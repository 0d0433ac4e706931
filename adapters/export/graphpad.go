package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"morpho/internal"
	"morpho/internal/errors"
)

// GraphPad Prism .pzfx document structure. One OneWay table per parameter,
// one YColumn per condition. Each value rides in its own Subcolumn element,
// matching what Prism accepts from the established export format.

type prismFile struct {
	XMLName         xml.Name     `xml:"GraphPadPrismFile"`
	Xmlns           string       `xml:"xmlns,attr"`
	PrismXMLVersion string       `xml:"PrismXMLVersion,attr"`
	Created         prismCreated `xml:"Created"`
	Tables          []prismTable `xml:"Table"`
}

type prismCreated struct {
	OriginalVersion prismVersion `xml:"OriginalVersion"`
}

type prismVersion struct {
	CreatedByProgram string `xml:"CreatedByProgram,attr"`
	CreatedByVersion string `xml:"CreatedByVersion,attr"`
	Login            string `xml:"Login,attr"`
	DateTime         string `xml:"DateTime,attr"`
}

type prismTable struct {
	ID        string        `xml:"ID,attr"`
	XFormat   string        `xml:"XFormat,attr"`
	TableType string        `xml:"TableType,attr"`
	EVFormat  string        `xml:"EVFormat,attr"`
	Title     string        `xml:"Title"`
	YColumns  []prismColumn `xml:"YColumn"`
}

type prismColumn struct {
	Width      string           `xml:"Width,attr"`
	Decimals   string           `xml:"Decimals,attr"`
	Subcolumns string           `xml:"Subcolumns,attr"`
	Title      string           `xml:"Title"`
	Values     []prismSubcolumn `xml:"Subcolumn"`
}

type prismSubcolumn struct {
	D string `xml:"d"`
}

// GraphPadExporter writes measurement data as a Prism .pzfx file.
type GraphPadExporter struct {
	logger *internal.Logger
}

func NewGraphPadExporter(logger *internal.Logger) *GraphPadExporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &GraphPadExporter{logger: logger}
}

// Export writes one table per parameter into outputDir and returns the
// file path.
func (e *GraphPadExporter) Export(outputDir string, data []ParameterData) (string, error) {
	doc := prismFile{
		Xmlns:           "http://graphpad.com/prism/Prism.htm",
		PrismXMLVersion: "5.00",
		Created: prismCreated{OriginalVersion: prismVersion{
			CreatedByProgram: "morpho",
			CreatedByVersion: "1.0.0",
			Login:            "User",
			DateTime:         time.Now().Format(time.RFC3339),
		}},
	}

	for _, pd := range data {
		if len(pd.Series) == 0 {
			continue
		}
		table := prismTable{
			ID:        "Table_" + strings.ReplaceAll(pd.Parameter, " ", "_"),
			XFormat:   "none",
			TableType: "OneWay",
			EVFormat:  "AsteriskAfterNumber",
			Title:     pd.Parameter,
		}
		for _, series := range pd.Series {
			if len(series.Values) == 0 {
				continue
			}
			col := prismColumn{
				Width:      "81",
				Decimals:   "3",
				Subcolumns: "1",
				Title:      series.Condition,
			}
			for _, v := range series.Values {
				col.Values = append(col.Values, prismSubcolumn{D: strconv.FormatFloat(v, 'g', -1, 64)})
			}
			table.YColumns = append(table.YColumns, col)
		}
		doc.Tables = append(doc.Tables, table)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize pzfx document")
	}

	path := filepath.Join(outputDir, artifactName("graphpad", "pzfx"))
	content := append([]byte(xml.Header), body...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	e.logger.Info("wrote pzfx file %s", path)
	return path, nil
}
