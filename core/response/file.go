package response

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// XLSXContentType is the media type of Office Open XML spreadsheets.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Attachment sends data as a download named filename. An empty contentType
// is derived from the file extension.
func Attachment(data []byte, filename string, contentType string) handler.Response {
	// Newlines and quotes would break the header.
	name := strings.NewReplacer("\n", "", "\r", "", `"`, "'").Replace(filename)

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}

// CSV sends records as a CSV download. The first record is usually the header.
func CSV(records [][]string, filename string) handler.Response {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(records); err != nil {
		return Error(fmt.Errorf("write csv: %w", err))
	}
	if !strings.HasSuffix(filename, ".csv") {
		filename += ".csv"
	}
	return Attachment(buf.Bytes(), filename, "text/csv; charset=utf-8")
}

// XLSX sends records as a single-sheet spreadsheet download.
func XLSX(sheet string, records [][]string, filename string) handler.Response {
	data, err := buildXLSX(sheet, records)
	if err != nil {
		return Error(err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		filename += ".xlsx"
	}
	return Attachment(data, filename, XLSXContentType)
}

func buildXLSX(sheet string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	for i, record := range records {
		for j, value := range record {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if len(records) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("freeze header: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
