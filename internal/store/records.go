package store

import (
	"database/sql"
	"fmt"
	"time"

	"staypivot/internal/model"
)

// dayLayout 日期列存储格式
const dayLayout = "2006-01-02"

// BatchInsertRecords 在一个事务内写入一次转换的全部长表记录
func (s *Store) BatchInsertRecords(runID string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO occupancy_records (
				run_id, customer, day,
				overnight_stays, cancellations, reservations, vacancies,
				guests, occupied_units, total_daily_rate
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.Exec(
				runID, r.Customer, r.Day.Format(dayLayout),
				r.OvernightStays, r.Cancellations, r.Reservations, r.Vacancies,
				r.Guests, r.OccupiedUnits, r.TotalDailyRate,
			); err != nil {
				return fmt.Errorf("failed to insert record for %s: %w", r.Customer, err)
			}
		}
		return nil
	})
}

// CountRecords 统计某次转换写入的记录数
func (s *Store) CountRecords(runID string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM occupancy_records WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// ListRecords 按 (日期, 客户) 顺序读取某次转换的记录
func (s *Store) ListRecords(runID string) ([]model.Record, error) {
	rows, err := s.db.Query(`
		SELECT customer, day,
			overnight_stays, cancellations, reservations, vacancies,
			guests, occupied_units, total_daily_rate
		FROM occupancy_records
		WHERE run_id = ?
		ORDER BY day, customer, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records failed: %w", err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var (
			r   model.Record
			day string
		)
		if err := rows.Scan(&r.Customer, &day,
			&r.OvernightStays, &r.Cancellations, &r.Reservations, &r.Vacancies,
			&r.Guests, &r.OccupiedUnits, &r.TotalDailyRate); err != nil {
			return nil, fmt.Errorf("scan record failed: %w", err)
		}
		r.Day, err = time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse stored day %q: %w", day, err)
		}
		r.Label = day
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records failed: %w", err)
	}
	return out, nil
}
