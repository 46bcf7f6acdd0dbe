package db

import (
	"gorm.io/gorm"

	"valid-assessment-backend/internal/db/query"
)

// QueryExecutor handles database queries.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Select runs a built query and returns each row as a column map.
func (qe *QueryExecutor) Select(qb *query.QueryBuilder) ([]map[string]interface{}, error) {
	sql, args := qb.Build()
	rows, err := qe.DB.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		rowData := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range rowData {
			scanArgs[i] = &rowData[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		record := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			record[col] = rowData[i]
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
