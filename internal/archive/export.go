package archive

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

var exportColumns = []string{
	"application_no", "applicant_name", "email", "post_applied_for",
	"category", "document_pages", "status", "submitted_at",
}

// ExportCSV streams all archived applications as CSV. Form data beyond
// the indexed columns is flattened from the JSONB payload on demand via
// the extra fields list.
func (a *Archiver) ExportCSV(ctx context.Context, w io.Writer, extraFields []string) error {
	rows, err := a.db.QueryContext(ctx, `
		SELECT application_no, applicant_name, email, post_applied_for,
		       category, document_pages, status, submitted_at, form_data
		FROM applications
		ORDER BY submitted_at`)
	if err != nil {
		return fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	header := append(append([]string{}, exportColumns...), extraFields...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for rows.Next() {
		var (
			applicationNo, name, email, post, category string
			pages                                      int
			status, submittedAt                        string
			formData                                   []byte
		)
		if err := rows.Scan(&applicationNo, &name, &email, &post, &category,
			&pages, &status, &submittedAt, &formData); err != nil {
			return fmt.Errorf("export scan failed: %w", err)
		}

		record := []string{
			applicationNo, name, email, post, category,
			fmt.Sprintf("%d", pages), status, submittedAt,
		}

		if len(extraFields) > 0 {
			values := map[string]string{}
			if err := json.Unmarshal(formData, &values); err != nil {
				a.logger.Warn("failed to decode form data for export", map[string]interface{}{
					"applicationNo": applicationNo,
					"error":         err,
				})
			}
			for _, field := range extraFields {
				record = append(record, values[field])
			}
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
