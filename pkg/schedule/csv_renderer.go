package schedule

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

// Export column order matches the persisted table schema, Title first. The
// internal ID column is omitted so exported files carry only user-facing
// fields.
var exportColumns = storeColumns[:len(storeColumns)-1]

type CsvEventRenderer interface {
	RenderEvents(events []Event) (string, error)
}

type CsvEventRendererImpl struct {
}

func NewCsvEventRenderer() *CsvEventRendererImpl {
	return &CsvEventRendererImpl{}
}

func (t *CsvEventRendererImpl) RenderEvents(events []Event) (string, error) {
	data := make([][]string, 0, len(events)+1)
	data = append(data, exportColumns)
	for _, e := range events {
		data = append(data, []string{
			e.Title(),
			formatDate(e.Date),
			string(e.Type),
			string(e.Status),
			string(e.Source),
			e.Client,
			e.Course,
			e.Trainer,
			string(e.Medium),
			e.Location,
			e.Billing,
			string(e.Invoiced),
			e.Notes,
			formatDateModified(e.DateModified),
			string(e.ActionType),
			e.ModifiedBy,
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
