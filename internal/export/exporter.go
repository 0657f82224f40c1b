package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/spreadclean/pkg/logger"
)

// Exporter S7 writes a set of tables into one directory
type Exporter struct {
	writer Writer
	rename func(oldpath, newpath string) error
	logger *logger.Logger
}

// NewExporter creates an Exporter for format
func NewExporter(format string, log *logger.Logger) (*Exporter, error) {
	w, err := NewWriter(format)
	if err != nil {
		return nil, err
	}
	return &Exporter{writer: w, rename: os.Rename, logger: log.WithField("module", "export")}, nil
}

// Path returns the file path of table name inside dir
func (e *Exporter) Path(dir, name string) string {
	return filepath.Join(dir, name+"."+e.writer.Ext())
}

// Export writes every table or none. Files are staged under temporary
// names and renamed once all of them have been written.
func (e *Exporter) Export(dir string, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	staged := make([]string, 0, len(tables))
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
	}

	for _, t := range tables {
		// 확장자 유지 (excelize SaveAs 검사)
		tmp := filepath.Join(dir, ".staging-"+t.Name+"."+e.writer.Ext())
		staged = append(staged, tmp)
		if err := e.writer.WriteTable(tmp, t); err != nil {
			cleanup()
			return nil, fmt.Errorf("write %s: %w", t.Name, err)
		}
	}

	paths := make([]string, 0, len(tables))
	for i, t := range tables {
		final := e.Path(dir, t.Name)
		if err := e.rename(staged[i], final); err != nil {
			// 이미 이동된 파일도 제거
			for _, p := range paths {
				_ = os.Remove(p)
			}
			cleanup()
			return nil, fmt.Errorf("rename %s: %w", t.Name, err)
		}
		paths = append(paths, final)

		e.logger.WithFields(map[string]interface{}{
			"table": t.Name,
			"rows":  len(t.Rows),
			"path":  final,
		}).Debug("Wrote output table")
	}

	e.logger.WithFields(map[string]interface{}{
		"dir":    dir,
		"tables": len(tables),
		"format": e.writer.Ext(),
	}).Info("Exported tables")

	return paths, nil
}
